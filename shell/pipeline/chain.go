package pipeline

import (
	"github.com/librarylab/lending-go/shell"
)

// Middleware decorates a handler with one cross-cutting concern.
// Implementations receive the next stage as a continuation and return
// the decorated handler.
type Middleware[Req shell.Request, Res any] func(next shell.Handler[Req, Res]) shell.Handler[Req, Res]

// Chain composes the middlewares around the handler. The first
// middleware in the list becomes the outermost stage, so
//
//	Chain(h, Logging(...), Validation(...), Caching(...))
//
// produces the fixed Logging → Validation → Caching → Handler order.
func Chain[Req shell.Request, Res any](handler shell.Handler[Req, Res], middlewares ...Middleware[Req, Res]) shell.Handler[Req, Res] {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	return handler
}
