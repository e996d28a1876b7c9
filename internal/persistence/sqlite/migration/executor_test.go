package migration

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "migration.db") + "?_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestSQLiteExecutor_InitializeVersionTable(t *testing.T) {
	executor := NewSQLiteExecutor(setupTestDB(t))
	ctx := context.Background()

	if err := executor.InitializeVersionTable(ctx); err != nil {
		t.Fatalf("InitializeVersionTable failed: %v", err)
	}
	if err := executor.InitializeVersionTable(ctx); err != nil {
		t.Errorf("InitializeVersionTable should be idempotent, but failed on second call: %v", err)
	}
}

func TestSQLiteExecutor_ExecuteAndRecord(t *testing.T) {
	db := setupTestDB(t)
	executor := NewSQLiteExecutor(db)
	ctx := context.Background()

	if err := executor.InitializeVersionTable(ctx); err != nil {
		t.Fatalf("InitializeVersionTable failed: %v", err)
	}

	migration := Migration{
		Version:  "001",
		SQL:      "CREATE TABLE rooms (room_id INTEGER PRIMARY KEY);\nCREATE TABLE desks (desk_id INTEGER PRIMARY KEY, room_id INTEGER REFERENCES rooms(room_id));",
		FilePath: "migrations/001_initial_schema.sql",
		Checksum: "abc",
	}

	if err := executor.ExecuteMigration(ctx, migration); err != nil {
		t.Fatalf("ExecuteMigration failed: %v", err)
	}
	if err := executor.RecordMigration(ctx, migration, 15*time.Millisecond); err != nil {
		t.Fatalf("RecordMigration failed: %v", err)
	}

	if _, err := db.ExecContext(ctx, "INSERT INTO rooms (room_id) VALUES (1)"); err != nil {
		t.Fatalf("expected rooms table to exist: %v", err)
	}

	applied, err := executor.GetAppliedVersions(ctx)
	if err != nil {
		t.Fatalf("GetAppliedVersions failed: %v", err)
	}
	if len(applied) != 1 {
		t.Fatalf("expected 1 applied migration, got %d", len(applied))
	}
	if applied[0].Version != "001" || applied[0].Checksum != "abc" {
		t.Errorf("unexpected applied migration: %+v", applied[0])
	}
	if applied[0].ExecutionTime != 15*time.Millisecond {
		t.Errorf("expected execution time 15ms, got %v", applied[0].ExecutionTime)
	}
}

func TestSQLiteExecutor_RollsBackFailedMigration(t *testing.T) {
	db := setupTestDB(t)
	executor := NewSQLiteExecutor(db)
	ctx := context.Background()

	migration := Migration{
		Version: "001",
		SQL:     "CREATE TABLE rooms (room_id INTEGER PRIMARY KEY);\nTHIS IS NOT SQL;",
	}

	err := executor.ExecuteMigration(ctx, migration)
	var dbErr *DatabaseError
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected DatabaseError, got %v", err)
	}
	if dbErr.Operation != "execute statement 2" {
		t.Errorf("unexpected failing operation: %s", dbErr.Operation)
	}

	var name string
	err = db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'rooms'").Scan(&name)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected rooms table to be rolled back, got name=%q err=%v", name, err)
	}
}

func TestSQLiteExecutor_EmptyMigration(t *testing.T) {
	executor := NewSQLiteExecutor(setupTestDB(t))

	err := executor.ExecuteMigration(context.Background(), Migration{Version: "001", SQL: "-- only a comment"})
	if !errors.Is(err, ErrInvalidMigrationFile) {
		t.Fatalf("expected ErrInvalidMigrationFile, got %v", err)
	}
}
