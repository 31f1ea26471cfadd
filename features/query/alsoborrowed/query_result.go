package alsoborrowed

import (
	"github.com/librarylab/lending-go/core"
)

// Result contains the co-occurrence ranking for the reference book.
// The reference book itself is never part of the ranking.
type Result struct {
	Books []core.RelatedBook
	Count int
}
