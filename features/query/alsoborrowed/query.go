package alsoborrowed

import (
	"time"

	"github.com/google/uuid"

	"github.com/librarylab/lending-go/core"
)

const requestType = "AlsoBorrowedBooks"

// Query represents the intent to find the books most often co-borrowed
// with a reference book, within an optional date window applied to the
// borrow time of both phases.
type Query struct {
	BookID uuid.UUID
	Top    int
	Start  *time.Time
	End    *time.Time
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(bookID uuid.UUID, top int, start *time.Time, end *time.Time) Query {
	return Query{BookID: bookID, Top: top, Start: start, End: end}
}

// RequestType returns the query type.
func (q Query) RequestType() string {
	return requestType
}

// CacheableRequest opts this query into the caching pipeline stage.
func (q Query) CacheableRequest() bool {
	return true
}

// Window returns the borrow-time window for this query.
func (q Query) Window() core.Window {
	return core.BuildWindow(q.Start, q.End)
}
