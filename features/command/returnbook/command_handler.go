package returnbook

import (
	"context"

	"github.com/librarylab/lending-go/shell"
)

// CommandHandler executes the return use case: it loads the loan,
// applies the single Active → Returned transition and persists the
// terminal state.
type CommandHandler struct {
	loans shell.LoanRepository
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(loans shell.LoanRepository) CommandHandler {
	return CommandHandler{loans: loans}
}

// Handle executes the return workflow:
//
//  1. Fail with NotFound("Loan") if no such loan exists.
//  2. Fail with AlreadyReturned if the loan is already terminal; the
//     transition happens at most once and a second return never mutates
//     state further.
//  3. Fail with InvalidArgument if returnedAt precedes the borrow time.
//  4. Persist the Returned state and report success.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	loan, err := h.loans.GetByID(ctx, command.LoanID)
	if err != nil {
		return Result{}, err
	}

	if err := loan.Return(command.ReturnedAt); err != nil {
		return Result{}, err
	}

	if err := h.loans.Update(ctx, loan); err != nil {
		return Result{}, err
	}

	return Result{Success: true}, nil
}
