package borrowbook

import (
	"context"

	"github.com/google/uuid"

	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/shell"
)

const (
	entityUser = "User"
	entityBook = "Book"
)

// CommandHandler executes the borrow use case against the lending ledger.
// It contains pure orchestration; the pipeline stages wrapping it handle
// all cross-cutting concerns.
//
// The existence and active-loan checks and the final insert are separate
// storage calls, so two concurrent borrows for the same (user, book)
// pair can race past the pre-check. The loan repository closes that race
// with its uniqueness guard: a conflicting insert fails with
// core.ConflictError, which this handler propagates as-is.
type CommandHandler struct {
	users shell.UserRepository
	books shell.BookRepository
	loans shell.LoanRepository
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(users shell.UserRepository, books shell.BookRepository, loans shell.LoanRepository) CommandHandler {
	return CommandHandler{
		users: users,
		books: books,
		loans: loans,
	}
}

// Handle executes the borrow workflow:
//
//  1. Fail with NotFound("User") if the user does not exist.
//  2. Fail with NotFound("Book") if the book does not exist.
//  3. Fail with Conflict if an Active loan exists for (user, book).
//  4. Create a new Active loan, persist it, and return its id.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	userExists, err := h.users.Exists(ctx, command.UserID)
	if err != nil {
		return Result{}, err
	}
	if !userExists {
		return Result{}, core.NewNotFound(entityUser, command.UserID)
	}

	bookExists, err := h.books.Exists(ctx, command.BookID)
	if err != nil {
		return Result{}, err
	}
	if !bookExists {
		return Result{}, core.NewNotFound(entityBook, command.BookID)
	}

	_, hasActiveLoan, err := h.loans.GetActiveLoan(ctx, command.UserID, command.BookID)
	if err != nil {
		return Result{}, err
	}
	if hasActiveLoan {
		return Result{}, core.ConflictError{UserID: command.UserID, BookID: command.BookID}
	}

	loan, err := core.NewLoan(uuid.New(), command.UserID, command.BookID, command.BorrowedAt)
	if err != nil {
		return Result{}, err
	}

	if err := h.loans.Add(ctx, loan); err != nil {
		return Result{}, err
	}

	return Result{LoanID: loan.ID}, nil
}
