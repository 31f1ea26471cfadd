package borrowbook

import (
	"context"

	"github.com/google/uuid"

	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/shell"
)

// NewValidator returns the rule set for BorrowBook commands consumed by
// the validation pipeline stage. Every violated rule is reported.
func NewValidator() shell.Validator[Command] {
	return shell.ValidatorFunc[Command](func(_ context.Context, command Command) []core.FieldViolation {
		violations := make([]core.FieldViolation, 0)

		if command.UserID == uuid.Nil {
			violations = append(violations, core.FieldViolation{Field: "userId", Message: "must not be empty"})
		}

		if command.BookID == uuid.Nil {
			violations = append(violations, core.FieldViolation{Field: "bookId", Message: "must not be empty"})
		}

		if command.BorrowedAt.IsZero() {
			violations = append(violations, core.FieldViolation{Field: "borrowedAt", Message: "must not be the zero time"})
		}

		return violations
	})
}
