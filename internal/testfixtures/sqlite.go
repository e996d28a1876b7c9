package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/deskbooker/internal/persistence/sqlite"
)

// NewStore opens a migrated store backed by a file in a temporary directory.
// Repository timestamps come from clock; a nil clock uses ReferenceTime.
// The store is closed when the test finishes.
func NewStore(tb testing.TB, clock *Clock) *sqlite.Store {
	tb.Helper()

	if clock == nil {
		clock = NewClock(referenceTime)
	}

	store, err := sqlite.Open(context.Background(), sqlite.Config{
		Path: filepath.Join(tb.TempDir(), "bookings.db"),
		Now:  clock.NowFunc(),
	}, nil)
	if err != nil {
		tb.Fatalf("failed to open store: %v", err)
	}

	tb.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
