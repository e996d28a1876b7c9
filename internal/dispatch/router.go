package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/deskbooker/internal/logging"
	"github.com/example/deskbooker/internal/telemetry"
)

// Tier is the privilege a command requires.
type Tier int

const (
	// TierPublic commands run for anyone.
	TierPublic Tier = iota
	// TierUser commands need a registered, non-delisted user.
	TierUser
	// TierAdmin commands need an admin or the superadmin.
	TierAdmin
	// TierSuperadmin commands need the configured superadmin.
	TierSuperadmin
)

func (t Tier) String() string {
	switch t {
	case TierPublic:
		return "public"
	case TierUser:
		return "user"
	case TierAdmin:
		return "admin"
	case TierSuperadmin:
		return "superadmin"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// Route describes one registered command.
type Route struct {
	Command     string
	Usage       string
	Description string
	Tier        Tier
}

// Reply for unknown commands and for plain text.
const (
	ReplyUnknownCommand = "Unknown command. Use /help to see what you can do."
	ReplyNotACommand    = "Send a command, for example /help."
)

// Router maps command names to gated handlers.
type Router struct {
	gate     *Gate
	counter  *telemetry.Counter
	logger   *slog.Logger
	routes   map[string]Handler
	order    []Route
	notFound Handler
}

// NewRouter creates a Router. Every routed command is wrapped as
// Track(counter) -> gate for its tier -> handler.
func NewRouter(gate *Gate, counter *telemetry.Counter, logger *slog.Logger) *Router {
	if logger == nil {
		logger = logging.Discard()
	}
	r := &Router{
		gate:    gate,
		counter: counter,
		logger:  logger.With("component", "router"),
		routes:  make(map[string]Handler),
	}
	r.notFound = Track(counter)(func(ctx context.Context, inv *Invocation) error {
		return inv.Reply(ctx, ReplyUnknownCommand)
	})
	return r
}

// Handle registers a command. It panics when the command is registered twice,
// like http.ServeMux.
func (r *Router) Handle(route Route, h Handler) {
	if route.Command == "" || route.Command[0] != '/' {
		panic(fmt.Sprintf("dispatch: invalid command %q", route.Command))
	}
	if _, exists := r.routes[route.Command]; exists {
		panic(fmt.Sprintf("dispatch: command %s registered twice", route.Command))
	}

	r.routes[route.Command] = Chain(h, Track(r.counter), r.gate.For(route.Tier))
	r.order = append(r.order, route)
}

// Routes returns the registered commands in registration order.
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.order))
	copy(out, r.order)
	return out
}

// Dispatch runs the handler chain for inv. It implements Handler.
func (r *Router) Dispatch(ctx context.Context, inv *Invocation) error {
	if !inv.IsCommand() {
		return inv.Reply(ctx, ReplyNotACommand)
	}

	h, ok := r.routes[inv.Command]
	if !ok {
		logging.FromContextOr(ctx, r.logger).InfoContext(ctx, "unknown command",
			"command", inv.Command,
			"actor_id", inv.Actor.ID,
		)
		return r.notFound(ctx, inv)
	}
	return h(ctx, inv)
}
