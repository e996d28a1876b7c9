package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/deskbooker/internal/telemetry"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text        string
		wantCommand string
		wantArgs    []string
	}{
		{"/book 2026-10-20 3", "/book", []string{"2026-10-20", "3"}},
		{"  /HELP  ", "/help", nil},
		{"/start@DeskBot Ann", "/start", []string{"Ann"}},
		{"hello there", "hello", []string{"there"}},
		{"", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			command, args := ParseCommand(tt.text)
			assert.Equal(t, tt.wantCommand, command)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestChain_Order(t *testing.T) {
	var trace []string
	mw := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(ctx context.Context, inv *Invocation) error {
				trace = append(trace, name)
				return next(ctx, inv)
			}
		}
	}

	h := Chain(func(context.Context, *Invocation) error {
		trace = append(trace, "handler")
		return nil
	}, mw("outer"), mw("inner"))

	require.NoError(t, h(context.Background(), &Invocation{}))
	assert.Equal(t, []string{"outer", "inner", "handler"}, trace)
}

func newTestRouter() (*Router, *telemetry.Counter) {
	counter := telemetry.NewCounter()
	return NewRouter(NewGate(sampleIdentity(), nil), counter, nil), counter
}

func TestRouter_CountsRegardlessOfOutcome(t *testing.T) {
	router, counter := newTestRouter()
	calls := 0
	router.Handle(Route{Command: "/view_stats", Tier: TierSuperadmin}, func(context.Context, *Invocation) error {
		calls++
		return nil
	})

	ctx := context.Background()
	for _, actor := range []int64{2, 99, testSuperadmin, 1} {
		require.NoError(t, router.Dispatch(ctx, NewInvocation(Actor{ID: actor}, "/view_stats", &recorder{})))
	}

	assert.Equal(t, 4, counter.Count("/view_stats"))
	assert.Equal(t, 1, calls)
}

func TestRouter_UnknownAndPlainText(t *testing.T) {
	router, counter := newTestRouter()
	ctx := context.Background()

	rec := &recorder{}
	require.NoError(t, router.Dispatch(ctx, NewInvocation(Actor{ID: 2}, "/teleport now", rec)))
	assert.Equal(t, []string{ReplyUnknownCommand}, rec.all())
	assert.Equal(t, 1, counter.Count("/teleport"))

	rec = &recorder{}
	require.NoError(t, router.Dispatch(ctx, NewInvocation(Actor{ID: 2}, "good morning", rec)))
	assert.Equal(t, []string{ReplyNotACommand}, rec.all())
	assert.Len(t, counter.Snapshot(), 1, "plain text is not a command")
}

func TestRouter_Registration(t *testing.T) {
	router, _ := newTestRouter()
	noop := func(context.Context, *Invocation) error { return nil }

	router.Handle(Route{Command: "/start", Tier: TierPublic}, noop)
	router.Handle(Route{Command: "/book", Tier: TierUser}, noop)

	routes := router.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "/start", routes[0].Command)
	assert.Equal(t, TierUser, routes[1].Tier)

	assert.Panics(t, func() { router.Handle(Route{Command: "/book"}, noop) })
	assert.Panics(t, func() { router.Handle(Route{Command: "book"}, noop) })
}

func TestTier_String(t *testing.T) {
	assert.Equal(t, "superadmin", TierSuperadmin.String())
	assert.Equal(t, "Tier(9)", Tier(9).String())
}
