package returnbook

import (
	"context"

	"github.com/google/uuid"

	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/shell"
)

// NewValidator returns the rule set for ReturnBook commands consumed by
// the validation pipeline stage.
func NewValidator() shell.Validator[Command] {
	return shell.ValidatorFunc[Command](func(_ context.Context, command Command) []core.FieldViolation {
		violations := make([]core.FieldViolation, 0)

		if command.LoanID == uuid.Nil {
			violations = append(violations, core.FieldViolation{Field: "loanId", Message: "must not be empty"})
		}

		if command.ReturnedAt.IsZero() {
			violations = append(violations, core.FieldViolation{Field: "returnedAt", Message: "must not be the zero time"})
		}

		return violations
	})
}
