package topborrowers

import (
	"time"

	"github.com/librarylab/lending-go/core"
)

const requestType = "TopBorrowers"

// Query represents the intent to rank the users with the most loans
// within an optional date window applied to the borrow time.
type Query struct {
	Top   int
	Start *time.Time
	End   *time.Time
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(top int, start *time.Time, end *time.Time) Query {
	return Query{Top: top, Start: start, End: end}
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
