package readingpace

import (
	"github.com/google/uuid"
)

const requestType = "UserReadingPace"

// Query represents the intent to compute a user's reading pace over
// their returned loans.
type Query struct {
	UserID uuid.UUID
}

// BuildQuery creates a new Query for the given user.
func BuildQuery(userID uuid.UUID) Query {
	return Query{UserID: userID}
}

// RequestType returns the query type.
func (q Query) RequestType() string {
	return requestType
}

// CacheableRequest opts this query into the caching pipeline stage.
func (q Query) CacheableRequest() bool {
	return true
}
