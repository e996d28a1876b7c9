package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/example/deskbooker/internal/persistence/sqlite/migration"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Store owns the database handle and the repositories built on top of it.
type Store struct {
	db       *sql.DB
	executor *Executor
	logger   *slog.Logger

	Users    *UserRepository
	Rooms    *RoomRepository
	Desks    *DeskRepository
	Bookings *BookingRepository
}

// Open creates the storage location if needed, opens the pool and applies
// the embedded schema. A store that fails to migrate is closed and never
// returned.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	executor := NewExecutor(db)
	store := &Store{
		db:       db,
		executor: executor,
		logger:   logger,
		Users:    NewUserRepository(executor, cfg.Now),
		Rooms:    NewRoomRepository(executor),
		Desks:    NewDeskRepository(executor),
		Bookings: NewBookingRepository(executor, cfg.Now),
	}

	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Migrate applies pending migrations. It is a no-op on an up to date schema.
func (s *Store) Migrate(ctx context.Context) error {
	manager := migration.NewManager(
		migration.NewScanner(migrationFiles, "migrations"),
		migration.NewSQLiteExecutor(s.db),
		s.logger,
	)
	if err := manager.Run(ctx); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

// Executor returns the serialized statement executor shared by the repositories.
func (s *Store) Executor() *Executor {
	return s.executor
}

// Ping verifies that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
