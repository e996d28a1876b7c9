package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/deskbooker/internal/access"
	"github.com/example/deskbooker/internal/commands"
	"github.com/example/deskbooker/internal/dispatch"
	"github.com/example/deskbooker/internal/persistence/sqlite"
	"github.com/example/deskbooker/internal/telemetry"
	"github.com/example/deskbooker/internal/testfixtures"
)

const rootID int64 = 1000

type harness struct {
	store   *sqlite.Store
	clock   *testfixtures.Clock
	counter *telemetry.Counter
	router  *dispatch.Router
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	store := testfixtures.NewStore(t, clock)
	services := testfixtures.NewServiceFactory(testfixtures.WithClock(clock)).NewServices(store)

	_, err := sqlite.SeedSuperadmin(context.Background(), store.Users, rootID, "Root")
	require.NoError(t, err)

	resolver := access.NewResolver(rootID, store.Users, nil)
	counter := telemetry.NewCounter()
	router := dispatch.NewRouter(dispatch.NewGate(resolver, nil), counter, nil)

	commands.New(commands.Deps{
		Users:    services.Users,
		Rooms:    services.Rooms,
		Desks:    services.Desks,
		Bookings: services.Bookings,
		Identity: resolver,
		Stats:    counter,
	}).Register(router)

	return &harness{store: store, clock: clock, counter: counter, router: router}
}

// send dispatches text as actorID and returns the last reply.
func (h *harness) send(t *testing.T, actorID int64, text string) string {
	t.Helper()
	replies := h.sendAll(t, actorID, text)
	require.NotEmpty(t, replies, "no reply to %q", text)
	return replies[len(replies)-1]
}

func (h *harness) sendAll(t *testing.T, actorID int64, text string) []string {
	t.Helper()
	rec := &testfixtures.RecordingReplier{}
	inv := dispatch.NewInvocation(dispatch.Actor{ID: actorID, Name: "Actor"}, text, rec)
	require.NoError(t, h.router.Dispatch(context.Background(), inv))
	return rec.Replies()
}
