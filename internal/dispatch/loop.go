package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/deskbooker/internal/logging"
)

// ErrLoopStopped is returned by Submit once the loop no longer accepts work.
var ErrLoopStopped = errors.New("dispatch: loop stopped")

const defaultQueueSize = 64

type job struct {
	ctx  context.Context
	inv  *Invocation
	done chan struct{}
}

// Loop runs invocations one at a time in arrival order. Handlers run to
// completion even when the submitter gives up waiting.
type Loop struct {
	handler Handler
	logger  *slog.Logger
	queue   chan job
	stopped chan struct{}
	newID   func() string
}

// LoopOption customises a Loop.
type LoopOption func(*Loop)

// WithQueueSize sets how many invocations may wait for the worker.
func WithQueueSize(size int) LoopOption {
	return func(l *Loop) {
		if size > 0 {
			l.queue = make(chan job, size)
		}
	}
}

// WithIDGenerator replaces the invocation ID source.
func WithIDGenerator(next func() string) LoopOption {
	return func(l *Loop) {
		if next != nil {
			l.newID = next
		}
	}
}

// NewLoop creates a Loop around handler. A nil logger discards output.
func NewLoop(handler Handler, logger *slog.Logger, opts ...LoopOption) *Loop {
	if logger == nil {
		logger = logging.Discard()
	}
	l := &Loop{
		handler: handler,
		logger:  logger,
		queue:   make(chan job, defaultQueueSize),
		stopped: make(chan struct{}),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run processes queued invocations until ctx is cancelled. The invocation in
// progress when ctx is cancelled still completes. Run must be called once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)

	l.logger.InfoContext(ctx, "dispatch loop started")
	for {
		select {
		case <-ctx.Done():
			l.logger.InfoContext(ctx, "dispatch loop stopped")
			return nil
		case j := <-l.queue:
			l.process(j)
		}
	}
}

// Submit queues inv and waits until its handler chain has finished. It
// returns ErrLoopStopped when the loop is gone and ctx.Err() when the caller
// stops waiting; neither cancels a handler that already started.
func (l *Loop) Submit(ctx context.Context, inv *Invocation) error {
	if inv.ID == "" {
		inv.ID = l.newID()
	}

	j := job{ctx: ctx, inv: inv, done: make(chan struct{})}
	select {
	case l.queue <- j:
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-j.done:
		return nil
	case <-l.stopped:
		select {
		case <-j.done:
			return nil
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) process(j job) {
	defer close(j.done)

	inv := j.inv
	logger := l.logger.With(
		"invocation_id", inv.ID,
		"command", inv.Command,
		"actor_id", inv.Actor.ID,
	)
	ctx := logging.ContextWithLogger(context.WithoutCancel(j.ctx), logger)

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			logger.ErrorContext(ctx, "command handler panicked", "panic", fmt.Sprint(p))
			if err := inv.Reply(ctx, ReplyInternalError); err != nil {
				logger.ErrorContext(ctx, "failed to deliver error reply", "error", err)
			}
		}
	}()

	if err := l.handler(ctx, inv); err != nil {
		logger.ErrorContext(ctx, "command failed", "error", err, "duration", time.Since(start))
		return
	}
	logger.DebugContext(ctx, "command completed", "duration", time.Since(start))
}
