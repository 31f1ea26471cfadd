package pipeline

import (
	"context"
	"sync"

	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/shell"
)

// validationStage runs every registered validator for the request type
// and short-circuits with core.ValidationFailedError when any of them
// reports a violation. It must never call downstream in that case.
type validationStage[Req shell.Request, Res any] struct {
	next       shell.Handler[Req, Res]
	validators []shell.Validator[Req]
}

// Validation creates the validation pipeline stage. With zero
// registered validators the stage is a pass-through: the chain calls
// downstream unmodified. Otherwise all validators run concurrently and
// every failure from every validator is collected, not just the first.
// The combined violation list is ordered deterministically: validators
// in registration order, each validator's violations in the order it
// reported them.
func Validation[Req shell.Request, Res any](validators ...shell.Validator[Req]) Middleware[Req, Res] {
	return func(next shell.Handler[Req, Res]) shell.Handler[Req, Res] {
		if len(validators) == 0 {
			return next
		}

		return validationStage[Req, Res]{
			next:       next,
			validators: validators,
		}
	}
}

// Handle validates the request and either short-circuits with the
// aggregated violations or delegates to the next stage.
func (s validationStage[Req, Res]) Handle(ctx context.Context, request Req) (Res, error) {
	collected := make([][]core.FieldViolation, len(s.validators))

	var wg sync.WaitGroup
	for i, validator := range s.validators {
		wg.Add(1)

		go func(slot int, v shell.Validator[Req]) {
			defer wg.Done()
			collected[slot] = v.Validate(ctx, request)
		}(i, validator)
	}
	wg.Wait()

	violations := make([]core.FieldViolation, 0)
	for _, part := range collected {
		violations = append(violations, part...)
	}

	if len(violations) > 0 {
		var empty Res
		return empty, core.ValidationFailedError{Violations: violations}
	}

	return s.next.Handle(ctx, request)
}
