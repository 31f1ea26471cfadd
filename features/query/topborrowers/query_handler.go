package topborrowers

import (
	"context"

	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/shell"
)

// QueryHandler orchestrates the top-borrowers query workflow.
type QueryHandler struct {
	loans shell.LoanRepository
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(loans shell.LoanRepository) QueryHandler {
	return QueryHandler{loans: loans}
}

// Handle executes the query. Zero matching loans yield an empty result,
// not an error.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Result, error) {
	window := query.Window()

	loans, err := h.loans.GetLoansInWindow(ctx, window)
	if err != nil {
		return Result{}, err
	}

	borrowers := core.TopBorrowers(loans, window, query.Top)

	return Result{Borrowers: borrowers, Count: len(borrowers)}, nil
}
