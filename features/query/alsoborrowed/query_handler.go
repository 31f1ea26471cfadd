package alsoborrowed

import (
	"context"

	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/shell"
)

// QueryHandler orchestrates the also-borrowed query workflow. Both
// co-occurrence phases run over the same window slice of the ledger, so
// the window bounds apply to them independently but identically.
type QueryHandler struct {
	loans shell.LoanRepository
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(loans shell.LoanRepository) QueryHandler {
	return QueryHandler{loans: loans}
}

// Handle executes the query. A nonexistent or never-borrowed reference
// book yields an empty result, not an error.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Result, error) {
	window := query.Window()

	loans, err := h.loans.GetLoansInWindow(ctx, window)
	if err != nil {
		return Result{}, err
	}

	books := core.AlsoBorrowed(loans, query.BookID, window, query.Top)

	return Result{Books: books, Count: len(books)}, nil
}
