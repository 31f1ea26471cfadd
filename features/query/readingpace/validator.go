package readingpace

import (
	"context"

	"github.com/google/uuid"

	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/shell"
)

// NewValidator returns the rule set for UserReadingPace queries.
func NewValidator() shell.Validator[Query] {
	return shell.ValidatorFunc[Query](func(_ context.Context, query Query) []core.FieldViolation {
		violations := make([]core.FieldViolation, 0)

		if query.UserID == uuid.Nil {
			violations = append(violations, core.FieldViolation{Field: "userId", Message: "must not be empty"})
		}

		return violations
	})
}
