// Package dispatch routes inbound commands through telemetry and the
// authorization gates to their handlers, one command at a time.
package dispatch

import (
	"context"
	"strings"
)

// Actor is the external identity issuing a command.
type Actor struct {
	ID       int64
	Name     string
	Username string
}

// Replier delivers free-text replies back to the actor.
type Replier interface {
	Reply(ctx context.Context, text string) error
}

// ReplierFunc adapts a function to Replier.
type ReplierFunc func(ctx context.Context, text string) error

// Reply calls f.
func (f ReplierFunc) Reply(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Invocation is the context handed to every gate and handler.
type Invocation struct {
	// ID correlates log records of one invocation. Loop assigns it when empty.
	ID      string
	Command string
	Args    []string
	Text    string
	Actor   Actor
	Replier Replier
}

// NewInvocation parses text into a command and its arguments.
func NewInvocation(actor Actor, text string, replier Replier) *Invocation {
	command, args := ParseCommand(text)
	return &Invocation{
		Command: command,
		Args:    args,
		Text:    text,
		Actor:   actor,
		Replier: replier,
	}
}

// Reply sends text to the actor. Invocations without a replier drop replies.
func (inv *Invocation) Reply(ctx context.Context, text string) error {
	if inv.Replier == nil {
		return nil
	}
	return inv.Replier.Reply(ctx, text)
}

// IsCommand reports whether the invocation carries a slash command.
func (inv *Invocation) IsCommand() bool {
	return strings.HasPrefix(inv.Command, "/")
}

// ParseCommand splits text on whitespace. The first token is the command,
// lower-cased and stripped of a "@botname" suffix.
func ParseCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}

	command := strings.ToLower(fields[0])
	if strings.HasPrefix(command, "/") {
		if at := strings.IndexByte(command, '@'); at > 0 {
			command = command[:at]
		}
	}

	var args []string
	if len(fields) > 1 {
		args = fields[1:]
	}
	return command, args
}
