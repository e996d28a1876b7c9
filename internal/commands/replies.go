package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/deskbooker/internal/application"
	"github.com/example/deskbooker/internal/dispatch"
)

var errUsage = errors.New("commands: bad arguments")

// fail answers err with a user-facing message. Expected outcomes are replied
// to and swallowed; anything else gets the generic reply and is returned so
// the loop logs it.
func (h *Handlers) fail(ctx context.Context, inv *dispatch.Invocation, subject string, err error) error {
	var vErr *application.ValidationError
	var text string
	switch {
	case errors.Is(err, errUsage):
		text = "Usage: " + h.usage[inv.Command]
	case errors.As(err, &vErr):
		text = "Invalid input: " + vErr.Summary() + "."
	case errors.Is(err, application.ErrNotFound):
		text = subject + " not found."
	case errors.Is(err, application.ErrAlreadyExists):
		text = subject + " already exists."
	case errors.Is(err, application.ErrInUse):
		text = subject + " still has bookings and cannot be removed."
	case errors.Is(err, application.ErrConflict):
		text = "That desk is already taken on this date, or you already have a booking for it."
	case errors.Is(err, application.ErrUnavailable):
		text = "That desk is not available for booking."
	case errors.Is(err, application.ErrUnauthorized):
		text = "You can only manage your own bookings."
	default:
		if replyErr := inv.Reply(ctx, dispatch.ReplyInternalError); replyErr != nil {
			h.log(ctx, inv).ErrorContext(ctx, "failed to deliver error reply", "error", replyErr)
		}
		return fmt.Errorf("%s: %w", inv.Command, err)
	}

	h.log(ctx, inv).InfoContext(ctx, "command rejected", "error_kind", application.ErrorKind(err), "reason", text)
	return inv.Reply(ctx, text)
}

func intArg(inv *dispatch.Invocation, i int) (int64, error) {
	if i >= len(inv.Args) {
		return 0, errUsage
	}
	n, err := strconv.ParseInt(inv.Args[i], 10, 64)
	if err != nil {
		return 0, errUsage
	}
	return n, nil
}

func boolArg(inv *dispatch.Invocation, i int) (bool, error) {
	if i >= len(inv.Args) {
		return false, errUsage
	}
	v, err := strconv.ParseBool(inv.Args[i])
	if err != nil {
		return false, errUsage
	}
	return v, nil
}

// restArg joins the arguments from i on.
func restArg(inv *dispatch.Invocation, i int) (string, error) {
	if i >= len(inv.Args) {
		return "", errUsage
	}
	return strings.Join(inv.Args[i:], " "), nil
}

func availability(available bool) string {
	if available {
		return "available"
	}
	return "unavailable"
}
