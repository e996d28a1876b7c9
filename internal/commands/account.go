package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/deskbooker/internal/dispatch"
)

func (h *Handlers) start(ctx context.Context, inv *dispatch.Invocation) error {
	name := strings.Join(inv.Args, " ")
	if name == "" {
		name = inv.Actor.Name
	}
	if name == "" {
		name = inv.Actor.Username
	}
	if name == "" {
		name = fmt.Sprintf("user %d", inv.Actor.ID)
	}

	created, err := h.users.Register(ctx, inv.Actor.ID, name)
	if err != nil {
		return h.fail(ctx, inv, "User", err)
	}
	if !created {
		return inv.Reply(ctx, "You are already registered. Use /help to see what you can do.")
	}
	return inv.Reply(ctx, fmt.Sprintf("Welcome, %s! You are registered. Use /help to see what you can do.", name))
}

// help lists the commands whose gate the actor would pass.
func (h *Handlers) help(ctx context.Context, inv *dispatch.Invocation) error {
	actorID := inv.Actor.ID
	superadmin := h.identity.IsSuperadmin(actorID)
	admin := h.identity.IsAdmin(ctx, actorID)
	user, found, err := h.identity.Lookup(ctx, actorID)
	if err != nil {
		return h.fail(ctx, inv, "User", err)
	}
	registered := found && !user.IsDelisted

	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, e := range h.routes {
		switch e.route.Tier {
		case dispatch.TierUser:
			if !registered {
				continue
			}
		case dispatch.TierAdmin:
			if !admin {
				continue
			}
		case dispatch.TierSuperadmin:
			if !superadmin {
				continue
			}
		}
		fmt.Fprintf(&b, "%s - %s\n", e.route.Usage, e.route.Description)
	}
	if !found {
		b.WriteString("\nUse /start to register.")
	}
	return inv.Reply(ctx, strings.TrimRight(b.String(), "\n"))
}

func (h *Handlers) viewStats(ctx context.Context, inv *dispatch.Invocation) error {
	return inv.Reply(ctx, h.stats.Report())
}

func (h *Handlers) addUser(ctx context.Context, inv *dispatch.Invocation) error {
	id, err := intArg(inv, 0)
	if err != nil {
		return h.fail(ctx, inv, "User", err)
	}
	name, err := restArg(inv, 1)
	if err != nil {
		return h.fail(ctx, inv, "User", err)
	}
	if err := h.users.AddUser(ctx, id, name); err != nil {
		return h.fail(ctx, inv, "User", err)
	}
	return inv.Reply(ctx, fmt.Sprintf("User %d (%s) added.", id, name))
}

func (h *Handlers) removeUser(ctx context.Context, inv *dispatch.Invocation) error {
	return h.withUserID(ctx, inv, h.users.RemoveUser, "User %d removed.")
}

func (h *Handlers) delistUser(ctx context.Context, inv *dispatch.Invocation) error {
	return h.withUserID(ctx, inv, h.users.DelistUser, "User %d delisted.")
}

func (h *Handlers) listUser(ctx context.Context, inv *dispatch.Invocation) error {
	return h.withUserID(ctx, inv, h.users.RelistUser, "User %d can use the bot again.")
}

func (h *Handlers) makeAdmin(ctx context.Context, inv *dispatch.Invocation) error {
	return h.withUserID(ctx, inv, func(ctx context.Context, id int64) error {
		return h.users.SetAdmin(ctx, id, true)
	}, "User %d is now an admin.")
}

func (h *Handlers) revokeAdmin(ctx context.Context, inv *dispatch.Invocation) error {
	return h.withUserID(ctx, inv, func(ctx context.Context, id int64) error {
		return h.users.SetAdmin(ctx, id, false)
	}, "User %d is no longer an admin.")
}

func (h *Handlers) withUserID(ctx context.Context, inv *dispatch.Invocation, apply func(context.Context, int64) error, done string) error {
	id, err := intArg(inv, 0)
	if err == nil {
		err = apply(ctx, id)
	}
	if err != nil {
		return h.fail(ctx, inv, "User", err)
	}
	return inv.Reply(ctx, fmt.Sprintf(done, id))
}

func (h *Handlers) viewUsers(ctx context.Context, inv *dispatch.Invocation) error {
	users, err := h.users.ListUsers(ctx)
	if err != nil {
		return h.fail(ctx, inv, "User", err)
	}
	if len(users) == 0 {
		return inv.Reply(ctx, "No users yet.")
	}

	var b strings.Builder
	b.WriteString("Users:")
	for _, u := range users {
		fmt.Fprintf(&b, "\n%d %s", u.ID, u.Name)
		if u.IsAdmin {
			b.WriteString(" [admin]")
		}
		if u.IsDelisted {
			b.WriteString(" [delisted]")
		}
	}
	return inv.Reply(ctx, b.String())
}
