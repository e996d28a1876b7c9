package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/deskbooker/internal/logging"
	"github.com/example/deskbooker/internal/persistence"
)

// Replies sent by the gates.
const (
	ReplyNotAuthorized = "You are not authorized to use this command."
	ReplyNotRegistered = "You need to be registered to use this command. Use /start to register."
	ReplyRevoked       = "Your access has been revoked. Contact an administrator."
	ReplyInternalError = "An error occurred. Please try again later."
)

// Identity is what the gates need to classify an actor. access.Resolver
// implements it.
type Identity interface {
	IsSuperadmin(actorID int64) bool
	IsAdmin(ctx context.Context, actorID int64) bool
	Lookup(ctx context.Context, actorID int64) (persistence.User, bool, error)
}

// Gate builds the authorization middleware for each privilege tier.
//
// A gate runs its check before the wrapped handler. A rejected actor gets a
// reply and the handler never runs. A failing or panicking check is logged
// and answered with ReplyInternalError. On success the handler is called with
// the same context and invocation and its error is returned unchanged. A gate
// never returns an error of its own.
type Gate struct {
	identity Identity
	logger   *slog.Logger
}

// NewGate creates a Gate. A nil logger discards output.
func NewGate(identity Identity, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Gate{identity: identity, logger: logger.With("component", "gate")}
}

type verdict struct {
	allowed bool
	reply   string
	reason  string
}

var allow = verdict{allowed: true}

type checkFunc func(ctx context.Context, inv *Invocation) (verdict, error)

// Superadmin admits only the configured superadmin. The store is not consulted.
func (g *Gate) Superadmin() Middleware {
	return g.guard(TierSuperadmin, func(_ context.Context, inv *Invocation) (verdict, error) {
		if g.identity.IsSuperadmin(inv.Actor.ID) {
			return allow, nil
		}
		return verdict{reply: ReplyNotAuthorized, reason: "not superadmin"}, nil
	})
}

// Admin admits actors for which Identity.IsAdmin holds. The delisted flag is
// not consulted.
func (g *Gate) Admin() Middleware {
	return g.guard(TierAdmin, func(ctx context.Context, inv *Invocation) (verdict, error) {
		if g.identity.IsAdmin(ctx, inv.Actor.ID) {
			return allow, nil
		}
		return verdict{reply: ReplyNotAuthorized, reason: "not admin"}, nil
	})
}

// RegisteredUser admits actors with a user row that is not delisted.
func (g *Gate) RegisteredUser() Middleware {
	return g.guard(TierUser, func(ctx context.Context, inv *Invocation) (verdict, error) {
		user, found, err := g.identity.Lookup(ctx, inv.Actor.ID)
		if err != nil {
			return verdict{}, err
		}
		if !found {
			return verdict{reply: ReplyNotRegistered, reason: "unregistered"}, nil
		}
		if user.IsDelisted {
			return verdict{reply: ReplyRevoked, reason: "delisted"}, nil
		}
		return allow, nil
	})
}

// For returns the middleware of a tier. TierPublic yields a pass-through.
func (g *Gate) For(tier Tier) Middleware {
	switch tier {
	case TierSuperadmin:
		return g.Superadmin()
	case TierAdmin:
		return g.Admin()
	case TierUser:
		return g.RegisteredUser()
	default:
		return func(next Handler) Handler { return next }
	}
}

func (g *Gate) guard(tier Tier, check checkFunc) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, inv *Invocation) error {
			logger := logging.FromContextOr(ctx, g.logger).With(
				"tier", tier.String(),
				"command", inv.Command,
				"actor_id", inv.Actor.ID,
			)
			logger.InfoContext(ctx, "gated command invoked")

			v, err := g.runCheck(ctx, inv, check)
			if err != nil {
				logger.ErrorContext(ctx, "authorization check failed", "error", err)
				g.reply(ctx, logger, inv, ReplyInternalError)
				return nil
			}
			if !v.allowed {
				logger.WarnContext(ctx, "unauthorized command attempt", "reason", v.reason)
				g.reply(ctx, logger, inv, v.reply)
				return nil
			}

			return next(ctx, inv)
		}
	}
}

func (g *Gate) runCheck(ctx context.Context, inv *Invocation, check checkFunc) (v verdict, err error) {
	defer func() {
		if p := recover(); p != nil {
			v = verdict{}
			err = fmt.Errorf("%w: %v", errCheckPanicked, p)
		}
	}()
	return check(ctx, inv)
}

var errCheckPanicked = errors.New("dispatch: authorization check panicked")

func (g *Gate) reply(ctx context.Context, logger *slog.Logger, inv *Invocation, text string) {
	if err := inv.Reply(ctx, text); err != nil {
		logger.ErrorContext(ctx, "failed to deliver gate reply", "error", err)
	}
}
