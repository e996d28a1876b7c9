package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/deskbooker/internal/persistence"
)

const deskColumns = `desk_id, room_id, desk_number, desk_availability, desk_add_info`

// DeskRepository implements persistence.DeskRepository using SQLite
type DeskRepository struct {
	exec *Executor
}

// NewDeskRepository creates a new SQLite desk repository
func NewDeskRepository(exec *Executor) *DeskRepository {
	return &DeskRepository{exec: exec}
}

// CreateDesk inserts a desk and returns it with the assigned ID. A room
// reference to a missing room yields ErrConstraintViolation.
func (r *DeskRepository) CreateDesk(ctx context.Context, desk persistence.Desk) (persistence.Desk, error) {
	result, err := r.exec.Execute(ctx, Statement{
		SQL:  `INSERT INTO desks (room_id, desk_number, desk_availability, desk_add_info) VALUES (?, ?, ?, ?)`,
		Args: []any{nullInt64(desk.RoomID), desk.Number, desk.Available, nullString(desk.Note)},
	}, FetchNone, nil)
	if err != nil {
		return persistence.Desk{}, err
	}

	desk.ID = result.LastInsertID
	return desk, nil
}

// UpdateDesk overwrites every mutable column of an existing desk
func (r *DeskRepository) UpdateDesk(ctx context.Context, desk persistence.Desk) error {
	result, err := r.exec.Execute(ctx, Statement{
		SQL: `UPDATE desks
			SET room_id = ?, desk_number = ?, desk_availability = ?, desk_add_info = ?
			WHERE desk_id = ?`,
		Args: []any{nullInt64(desk.RoomID), desk.Number, desk.Available, nullString(desk.Note), desk.ID},
	}, FetchNone, nil)
	if err != nil {
		return err
	}
	if result.RowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetDesk retrieves a desk by ID
func (r *DeskRepository) GetDesk(ctx context.Context, id int64) (persistence.Desk, error) {
	var desk persistence.Desk
	_, err := r.exec.Execute(ctx, Statement{
		SQL:  `SELECT ` + deskColumns + ` FROM desks WHERE desk_id = ?`,
		Args: []any{id},
	}, FetchOne, func(row Row) error {
		var scanErr error
		desk, scanErr = scanDesk(row)
		return scanErr
	})
	if err != nil {
		return persistence.Desk{}, err
	}
	return desk, nil
}

// ListDesks returns every desk, detached ones included
func (r *DeskRepository) ListDesks(ctx context.Context) ([]persistence.Desk, error) {
	return r.list(ctx, Statement{
		SQL: `SELECT ` + deskColumns + ` FROM desks ORDER BY room_id ASC, desk_number ASC, desk_id ASC`,
	})
}

// ListDesksInRoom returns the desks of one room ordered by number
func (r *DeskRepository) ListDesksInRoom(ctx context.Context, roomID int64) ([]persistence.Desk, error) {
	return r.list(ctx, Statement{
		SQL:  `SELECT ` + deskColumns + ` FROM desks WHERE room_id = ? ORDER BY desk_number ASC, desk_id ASC`,
		Args: []any{roomID},
	})
}

func (r *DeskRepository) list(ctx context.Context, stmt Statement) ([]persistence.Desk, error) {
	var desks []persistence.Desk
	_, err := r.exec.Execute(ctx, stmt, FetchAll, func(row Row) error {
		desk, err := scanDesk(row)
		if err != nil {
			return err
		}
		desks = append(desks, desk)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return desks, nil
}

// DeleteDesk removes a desk together with its bookings
func (r *DeskRepository) DeleteDesk(ctx context.Context, id int64) error {
	result, err := r.exec.Execute(ctx, Statement{
		SQL:  `DELETE FROM desks WHERE desk_id = ?`,
		Args: []any{id},
	}, FetchNone, nil)
	if err != nil {
		return err
	}
	if result.RowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func scanDesk(row Row) (persistence.Desk, error) {
	var desk persistence.Desk
	var roomID sql.NullInt64
	var note sql.NullString

	if err := row.Scan(&desk.ID, &roomID, &desk.Number, &desk.Available, &note); err != nil {
		return persistence.Desk{}, fmt.Errorf("sqlite: scan desk: %w", err)
	}

	desk.RoomID = int64Ptr(roomID)
	desk.Note = stringPtr(note)
	return desk, nil
}
