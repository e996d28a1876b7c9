package dispatch

import "context"

// Handler runs one command. A returned error is logged by the loop and never
// shown to the actor; handlers report user-facing failures through Reply.
type Handler func(ctx context.Context, inv *Invocation) error

// Middleware wraps a Handler with a Handler of the same signature.
type Middleware func(next Handler) Handler

// Chain wraps h with mws. The first middleware is the outermost one.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
