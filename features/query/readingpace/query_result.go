package readingpace

import (
	"github.com/google/uuid"

	"github.com/librarylab/lending-go/core"
)

// Result contains the user's aggregate reading pace and the per-loan
// pace records it was derived from.
type Result struct {
	UserID      uuid.UUID
	PagesPerDay float64
	Loans       []core.LoanPace
}
