package mostborrowed

import (
	"context"

	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/shell"
)

const (
	minTop = 1
	maxTop = 100
)

// NewValidator returns the rule set for MostBorrowedBooks queries: the
// top bound must lie in [1, 100] and the window bounds must be ordered.
func NewValidator() shell.Validator[Query] {
	return shell.ValidatorFunc[Query](func(_ context.Context, query Query) []core.FieldViolation {
		violations := make([]core.FieldViolation, 0)

		if query.Top < minTop || query.Top > maxTop {
			violations = append(violations, core.FieldViolation{Field: "top", Message: "must be between 1 and 100"})
		}

		if query.Start != nil && query.End != nil && query.End.Before(*query.Start) {
			violations = append(violations, core.FieldViolation{Field: "end", Message: "must not be earlier than start"})
		}

		return violations
	})
}
