package shell

import (
	"context"

	"github.com/google/uuid"

	"github.com/librarylab/lending-go/core"
)

// BookRepository is the storage port for the book catalog.
// GetByID fails with core.NotFoundError when no such book exists.
type BookRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (core.Book, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Add(ctx context.Context, book core.Book) error
	GetAll(ctx context.Context) ([]core.Book, error)
}

// UserRepository is the storage port for registered users.
// GetByID fails with core.NotFoundError when no such user exists.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (core.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Add(ctx context.Context, user core.User) error
	GetAll(ctx context.Context) ([]core.User, error)
}

// LoanRepository is the storage port for the lending ledger.
//
// Implementations must guard the "at most one Active loan per
// (user, book) pair" rule: Add fails with core.ConflictError when an
// Active loan already exists for the pair, which the borrow handler
// relies on to close the check-then-act race between concurrent borrow
// calls.
//
// GetLoansByUser and GetLoansByBook return loans ordered by borrow time
// descending (most recent first) with resolved Book references attached.
// GetLoansInWindow returns the ledger slice for the analytics window
// ordered by borrow time ascending, with both Book and User resolved.
type LoanRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (core.Loan, error)
	GetActiveLoan(ctx context.Context, userID uuid.UUID, bookID uuid.UUID) (core.Loan, bool, error)
	GetLoansByUser(ctx context.Context, userID uuid.UUID, window core.Window) ([]core.Loan, error)
	GetLoansByBook(ctx context.Context, bookID uuid.UUID, window core.Window) ([]core.Loan, error)
	GetLoansInWindow(ctx context.Context, window core.Window) ([]core.Loan, error)
	Add(ctx context.Context, loan core.Loan) error
	Update(ctx context.Context, loan core.Loan) error
}
