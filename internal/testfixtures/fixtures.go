package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/example/deskbooker/internal/persistence"
	"github.com/example/deskbooker/internal/persistence/sqlite"
)

var referenceTime = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate returns ReferenceTime shifted by days and truncated to a
// calendar date.
func ReferenceDate(days int) time.Time {
	d := referenceTime.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// Floor is a room and its desks created by SeedFloor.
type Floor struct {
	Room  persistence.Room
	Desks []persistence.Desk
}

// SeedFloor creates an available room with desks numbered 1..deskCount.
func SeedFloor(tb testing.TB, store *sqlite.Store, name string, deskCount int) Floor {
	tb.Helper()
	ctx := context.Background()

	room, err := store.Rooms.CreateRoom(ctx, persistence.Room{Name: name, Available: true})
	if err != nil {
		tb.Fatalf("failed to create room %q: %v", name, err)
	}

	floor := Floor{Room: room}
	for n := 1; n <= deskCount; n++ {
		desk, err := store.Desks.CreateDesk(ctx, persistence.Desk{RoomID: &room.ID, Number: n, Available: true})
		if err != nil {
			tb.Fatalf("failed to create desk %d in %q: %v", n, name, err)
		}
		floor.Desks = append(floor.Desks, desk)
	}
	return floor
}

// SeedUser creates a user row with the given flags.
func SeedUser(tb testing.TB, store *sqlite.Store, id int64, name string, admin bool) persistence.User {
	tb.Helper()

	user := persistence.User{ID: id, Name: name, IsAdmin: admin}
	if err := store.Users.CreateUser(context.Background(), user); err != nil {
		tb.Fatalf("failed to create user %d: %v", id, err)
	}
	return user
}
