package mostborrowed

import (
	"context"

	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/shell"
)

// QueryHandler orchestrates the most-borrowed query workflow: fetch the
// ledger slice for the window, then delegate to the pure aggregation.
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

	books := core.MostBorrowed(loans, window, query.Top)

	return Result{Books: books, Count: len(books)}, nil
}
