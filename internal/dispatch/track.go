package dispatch

import (
	"context"

	"github.com/example/deskbooker/internal/telemetry"
)

// Track counts every invocation under its command name before anything else
// runs, so rejected attempts are counted too.
func Track(counter *telemetry.Counter) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, inv *Invocation) error {
			counter.Increment(inv.Command)
			return next(ctx, inv)
		}
	}
}
