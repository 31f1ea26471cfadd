package mostborrowed

import (
	"github.com/librarylab/lending-go/core"
)

// Result contains the most-borrowed ranking, descending by loan count.
type Result struct {
	Books []core.BookBorrowCount
	Count int
}
