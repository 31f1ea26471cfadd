package core

import (
	"time"

	"github.com/google/uuid"
)

// Loan records one user borrowing one book. It references Book and User
// by id and does not own their lifecycle.
//
// Lifecycle: a loan is created Active via NewLoan and transitions exactly
// once to Returned via Return. There are no further transitions and no
// deletion path. The uniqueness rule "at most one Active loan per
// (user, book) pair" is enforced by the borrow command handler and
// additionally guarded at the storage layer.
//
// Book and User are optional resolved references. Repositories populate
// them on read paths that need them (reading pace, analytics); they are
// nil otherwise.
type Loan struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	BookID     uuid.UUID
	BorrowedAt time.Time
	ReturnedAt time.Time // zero while the loan is Active

	Book *Book
	User *User
}

// NewLoan creates an Active loan, validating all invariants eagerly.
// Timestamps are normalized to UTC.
func NewLoan(id uuid.UUID, userID uuid.UUID, bookID uuid.UUID, borrowedAt time.Time) (Loan, error) {
	if id == uuid.Nil {
		return Loan{}, NewInvalidArgument("id", "must not be empty")
	}

	if userID == uuid.Nil {
		return Loan{}, NewInvalidArgument("userId", "must not be empty")
	}

	if bookID == uuid.Nil {
		return Loan{}, NewInvalidArgument("bookId", "must not be empty")
	}

	if borrowedAt.IsZero() {
		return Loan{}, NewInvalidArgument("borrowedAt", "must not be the zero time")
	}

	return Loan{
		ID:         id,
		UserID:     userID,
		BookID:     bookID,
		BorrowedAt: borrowedAt.UTC(),
	}, nil
}

// RehydrateLoan reconstructs a loan from stored state without re-running
// the transition rules. Only repositories should use it; returnedAt may
// be the zero time for an Active loan.
func RehydrateLoan(id uuid.UUID, userID uuid.UUID, bookID uuid.UUID, borrowedAt time.Time, returnedAt time.Time) Loan {
	loan := Loan{
		ID:         id,
		UserID:     userID,
		BookID:     bookID,
		BorrowedAt: borrowedAt.UTC(),
	}

	if !returnedAt.IsZero() {
		loan.ReturnedAt = returnedAt.UTC()
	}

	return loan
}

// IsReturned reports whether the loan has reached its terminal state.
func (l Loan) IsReturned() bool {
	return !l.ReturnedAt.IsZero()
}

// Return transitions the loan to its terminal Returned state.
// It fails with AlreadyReturnedError if the loan is already returned and
// with InvalidArgumentError if returnedAt is earlier than BorrowedAt.
// The assignment is irreversible.
func (l *Loan) Return(returnedAt time.Time) error {
	if l.IsReturned() {
		return AlreadyReturnedError{LoanID: l.ID}
	}

	if returnedAt.Before(l.BorrowedAt) {
		return NewInvalidArgument("returnedAt", "must not be earlier than borrowedAt")
	}

	l.ReturnedAt = returnedAt.UTC()

	return nil
}

// WithBook returns a copy of the loan with the resolved book reference attached.
func (l Loan) WithBook(book Book) Loan {
	l.Book = &book
	return l
}

// WithUser returns a copy of the loan with the resolved user reference attached.
func (l Loan) WithUser(user User) Loan {
	l.User = &user
	return l
}
