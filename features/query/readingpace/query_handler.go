package readingpace

import (
	"context"

	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/shell"
)

const entityUser = "User"

// QueryHandler orchestrates the reading-pace query workflow. The loan
// repository resolves the Book reference on each loan, which the pace
// policy requires.
type QueryHandler struct {
	users shell.UserRepository
	loans shell.LoanRepository
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(users shell.UserRepository, loans shell.LoanRepository) QueryHandler {
	return QueryHandler{
		users: users,
		loans: loans,
	}
}

// Handle executes the query. It fails with NotFound("User") for an
// unknown user; a user with zero returned loans yields an aggregate
// pace of 0 and an empty record list.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Result, error) {
	exists, err := h.users.Exists(ctx, query.UserID)
	if err != nil {
		return Result{}, err
	}
	if !exists {
		return Result{}, core.NewNotFound(entityUser, query.UserID)
	}

	loans, err := h.loans.GetLoansByUser(ctx, query.UserID, core.Window{})
	if err != nil {
		return Result{}, err
	}

	pace := core.CalculateUserPace(loans)

	return Result{
		UserID:      query.UserID,
		PagesPerDay: pace.PagesPerDay,
		Loans:       pace.Loans,
	}, nil
}
