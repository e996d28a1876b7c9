// Package access answers identity questions for the authorization gates:
// whether an actor is the configured superadmin, an admin, or a registered
// user.
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/deskbooker/internal/logging"
	"github.com/example/deskbooker/internal/persistence"
)

// UserLookup is the slice of persistence.UserRepository the resolver needs.
type UserLookup interface {
	GetUser(ctx context.Context, id int64) (persistence.User, error)
}

// Resolver classifies actors. The configured superadmin is recognised by
// identity alone, without touching the store.
type Resolver struct {
	superadminID int64
	users        UserLookup
	logger       *slog.Logger
}

// NewResolver creates a Resolver. A nil logger discards output.
func NewResolver(superadminID int64, users UserLookup, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Resolver{
		superadminID: superadminID,
		users:        users,
		logger:       logger.With("component", "access"),
	}
}

// IsSuperadmin reports whether actorID is the configured superadmin.
func (r *Resolver) IsSuperadmin(actorID int64) bool {
	return r.superadminID != 0 && actorID == r.superadminID
}

// IsAdmin reports whether actorID may run admin commands.
//
// It fails closed: a store error or a panic while reading the user row is
// logged and reported as false. The superadmin is always an admin, even when
// no user row exists.
func (r *Resolver) IsAdmin(ctx context.Context, actorID int64) (admin bool) {
	if r.IsSuperadmin(actorID) {
		return true
	}

	logger := logging.FromContextOr(ctx, r.logger)
	defer func() {
		if p := recover(); p != nil {
			logger.ErrorContext(ctx, "admin check panicked, denying access",
				"actor_id", actorID,
				"panic", fmt.Sprint(p),
			)
			admin = false
		}
	}()

	user, err := r.users.GetUser(ctx, actorID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return false
		}
		logger.ErrorContext(ctx, "admin check failed, denying access",
			"actor_id", actorID,
			"error", err,
		)
		return false
	}

	return user.IsAdmin
}

// Lookup returns the user row for actorID. A missing row is reported as
// found=false with a nil error; store failures are returned to the caller.
func (r *Resolver) Lookup(ctx context.Context, actorID int64) (persistence.User, bool, error) {
	user, err := r.users.GetUser(ctx, actorID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.User{}, false, nil
		}
		return persistence.User{}, false, fmt.Errorf("access: lookup user %d: %w", actorID, err)
	}
	return user, true, nil
}
