package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/deskbooker/internal/persistence"
)

const roomColumns = `room_id, room_name, room_availability, plan_url, room_add_info`

// RoomRepository implements persistence.RoomRepository using SQLite
type RoomRepository struct {
	exec *Executor
}

// NewRoomRepository creates a new SQLite room repository
func NewRoomRepository(exec *Executor) *RoomRepository {
	return &RoomRepository{exec: exec}
}

// CreateRoom inserts a room and returns it with the assigned ID
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) (persistence.Room, error) {
	result, err := r.exec.Execute(ctx, Statement{
		SQL:  `INSERT INTO rooms (room_name, room_availability, plan_url, room_add_info) VALUES (?, ?, ?, ?)`,
		Args: []any{room.Name, room.Available, nullString(room.PlanURL), nullString(room.Note)},
	}, FetchNone, nil)
	if err != nil {
		return persistence.Room{}, err
	}

	room.ID = result.LastInsertID
	return room, nil
}

// UpdateRoom overwrites every mutable column of an existing room
func (r *RoomRepository) UpdateRoom(ctx context.Context, room persistence.Room) error {
	result, err := r.exec.Execute(ctx, Statement{
		SQL: `UPDATE rooms
			SET room_name = ?, room_availability = ?, plan_url = ?, room_add_info = ?
			WHERE room_id = ?`,
		Args: []any{room.Name, room.Available, nullString(room.PlanURL), nullString(room.Note), room.ID},
	}, FetchNone, nil)
	if err != nil {
		return err
	}
	if result.RowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetRoom retrieves a room by ID
func (r *RoomRepository) GetRoom(ctx context.Context, id int64) (persistence.Room, error) {
	var room persistence.Room
	_, err := r.exec.Execute(ctx, Statement{
		SQL:  `SELECT ` + roomColumns + ` FROM rooms WHERE room_id = ?`,
		Args: []any{id},
	}, FetchOne, func(row Row) error {
		var scanErr error
		room, scanErr = scanRoom(row)
		return scanErr
	})
	if err != nil {
		return persistence.Room{}, err
	}
	return room, nil
}

// ListRooms returns all rooms ordered by ID
func (r *RoomRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	var rooms []persistence.Room
	_, err := r.exec.Execute(ctx, Statement{
		SQL: `SELECT ` + roomColumns + ` FROM rooms ORDER BY room_id ASC`,
	}, FetchAll, func(row Row) error {
		room, err := scanRoom(row)
		if err != nil {
			return err
		}
		rooms = append(rooms, room)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// DeleteRoom removes a room. Its desks stay and lose their room reference.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id int64) error {
	result, err := r.exec.Execute(ctx, Statement{
		SQL:  `DELETE FROM rooms WHERE room_id = ?`,
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

func scanRoom(row Row) (persistence.Room, error) {
	var room persistence.Room
	var planURL, note sql.NullString

	if err := row.Scan(&room.ID, &room.Name, &room.Available, &planURL, &note); err != nil {
		return persistence.Room{}, fmt.Errorf("sqlite: scan room: %w", err)
	}

	room.PlanURL = stringPtr(planURL)
	room.Note = stringPtr(note)
	return room, nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}

func nullInt64(value *int64) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *value, Valid: true}
}

func int64Ptr(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}
