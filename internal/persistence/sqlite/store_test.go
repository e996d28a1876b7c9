package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/deskbooker/internal/persistence"
)

var fixedNow = time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), Config{
		Path: filepath.Join(t.TempDir(), "nested", "bookings.db"),
		Now:  func() time.Time { return fixedNow },
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestOpen_CreatesDirectoryAndSchema(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, table := range []string{"rooms", "desks", "users", "bookings", "schema_migrations"} {
		var name string
		_, err := store.Executor().Execute(ctx, Statement{
			SQL:  `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`,
			Args: []any{table},
		}, FetchOne, func(row Row) error { return row.Scan(&name) })
		require.NoError(t, err, "table %s", table)
		assert.Equal(t, table, name)
	}
}

func TestOpen_RejectsEmptyPath(t *testing.T) {
	_, err := Open(context.Background(), Config{}, nil)
	require.Error(t, err)
}

func TestStore_MigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.db")
	ctx := context.Background()

	first, err := Open(ctx, Config{Path: path}, nil)
	require.NoError(t, err)
	_, err = first.Rooms.CreateRoom(ctx, persistence.Room{Name: "Blue", Available: true})
	require.NoError(t, err)
	require.NoError(t, first.Migrate(ctx))
	require.NoError(t, first.Close())

	second, err := Open(ctx, Config{Path: path}, nil)
	require.NoError(t, err)
	defer second.Close()

	rooms, err := second.Rooms.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Blue", rooms[0].Name)
}

func TestExecutor_FetchModes(t *testing.T) {
	store := openTestStore(t)
	exec := store.Executor()
	ctx := context.Background()

	result, err := exec.Execute(ctx, Statement{
		SQL:  `INSERT INTO rooms (room_name) VALUES (?)`,
		Args: []any{"Robert'); DROP TABLE rooms;--"},
	}, FetchNone, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.RowsAffected)
	assert.EqualValues(t, 1, result.LastInsertID)

	var name string
	_, err = exec.Execute(ctx, Statement{
		SQL:  `SELECT room_name FROM rooms WHERE room_id = ?`,
		Args: []any{result.LastInsertID},
	}, FetchOne, func(row Row) error { return row.Scan(&name) })
	require.NoError(t, err)
	assert.Equal(t, "Robert'); DROP TABLE rooms;--", name)

	_, err = exec.Execute(ctx, Statement{
		SQL:  `SELECT room_name FROM rooms WHERE room_id = ?`,
		Args: []any{99},
	}, FetchOne, func(row Row) error { return row.Scan(&name) })
	assert.ErrorIs(t, err, persistence.ErrNotFound)

	_, err = exec.Execute(ctx, Statement{SQL: `INSERT INTO rooms (room_name) VALUES ('Green')`}, FetchNone, nil)
	require.NoError(t, err)

	var names []string
	all, err := exec.Execute(ctx, Statement{SQL: `SELECT room_name FROM rooms ORDER BY room_id`}, FetchAll, func(row Row) error {
		var n string
		if err := row.Scan(&n); err != nil {
			return err
		}
		names = append(names, n)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Rows)
	assert.Len(t, names, 2)

	_, err = exec.Execute(ctx, Statement{SQL: `SELECT 1`}, FetchAll, nil)
	assert.Error(t, err, "fetch modes that return rows need a scan function")
}

func TestExecutor_StatementErrorPropagates(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Executor().Execute(context.Background(), Statement{SQL: `SELECT * FROM missing_table`}, FetchAll, func(Row) error { return nil })
	require.Error(t, err)
}

func TestExecutor_TransactRollsBack(t *testing.T) {
	store := openTestStore(t)
	exec := store.Executor()
	ctx := context.Background()

	err := exec.Transact(ctx, func(tx *Tx) error {
		if _, err := tx.Execute(ctx, Statement{SQL: `INSERT INTO rooms (room_name) VALUES ('Temp')`}, FetchNone, nil); err != nil {
			return err
		}
		return persistence.ErrUnavailable
	})
	require.ErrorIs(t, err, persistence.ErrUnavailable)

	rooms, err := store.Rooms.ListRooms(ctx)
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestExecutor_ConcurrentWritesSerialize(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Rooms.CreateRoom(ctx, persistence.Room{Name: "Room", Available: true})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	rooms, err := store.Rooms.ListRooms(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 20)
}
