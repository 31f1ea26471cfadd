package shell

import (
	"context"

	"github.com/librarylab/lending-go/core"
)

// Request represents the contract for all command and query types that
// pass through the pipeline. The RequestType method enables polymorphic
// handling, observability instrumentation, and cache key construction.
type Request interface {
	RequestType() string
}

// Cacheable marks a request as eligible for the caching pipeline stage.
// This is a capability marker, not a structural check on mutability:
// only queries explicitly opting in are ever cached, and commands must
// never report true.
type Cacheable interface {
	Request
	CacheableRequest() bool
}

// Handler defines the contract for components that process a request and
// produce a typed response. The generic parameters ensure type safety
// between requests and their responses. Core handlers focus purely on
// business logic; the pipeline stages wrap them with cross-cutting
// concerns.
type Handler[Req Request, Res any] interface {
	Handle(ctx context.Context, request Req) (Res, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc[Req Request, Res any] func(ctx context.Context, request Req) (Res, error)

// Handle calls the wrapped function.
func (f HandlerFunc[Req, Res]) Handle(ctx context.Context, request Req) (Res, error) {
	return f(ctx, request)
}

// Validator checks one rule set against a request and reports every
// violation it finds, not just the first. Validators must be safe for
// concurrent use: the validation stage runs all registered validators
// for a request type concurrently.
type Validator[Req Request] interface {
	Validate(ctx context.Context, request Req) []core.FieldViolation
}

// ValidatorFunc adapts a plain function to the Validator interface.
type ValidatorFunc[Req Request] func(ctx context.Context, request Req) []core.FieldViolation

// Validate calls the wrapped function.
func (f ValidatorFunc[Req]) Validate(ctx context.Context, request Req) []core.FieldViolation {
	return f(ctx, request)
}
