package topborrowers

import (
	"github.com/librarylab/lending-go/core"
)

// Result contains the top-borrowers ranking, descending by loan count.
type Result struct {
	Borrowers []core.UserBorrowCount
	Count     int
}
