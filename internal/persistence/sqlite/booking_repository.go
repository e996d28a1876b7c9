package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/deskbooker/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite
type BookingRepository struct {
	exec *Executor
	now  func() time.Time
}

// NewBookingRepository creates a new SQLite booking repository
func NewBookingRepository(exec *Executor, now func() time.Time) *BookingRepository {
	if now == nil {
		now = time.Now
	}
	return &BookingRepository{exec: exec, now: now}
}

// CreateBooking checks the desk and the date inside one transaction before
// inserting, so two callers cannot both win the same desk and date.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking persistence.Booking) (persistence.Booking, error) {
	date := booking.Date.Format(persistence.DateLayout)
	booking.CreatedAt = r.now().UTC().Truncate(time.Second)

	err := r.exec.Transact(ctx, func(tx *Tx) error {
		var deskAvailable bool
		var roomAvailable sql.NullBool
		_, err := tx.Execute(ctx, Statement{
			SQL: `SELECT d.desk_availability, r.room_availability
				FROM desks d LEFT JOIN rooms r ON r.room_id = d.room_id
				WHERE d.desk_id = ?`,
			Args: []any{booking.DeskID},
		}, FetchOne, func(row Row) error {
			return row.Scan(&deskAvailable, &roomAvailable)
		})
		if err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				return fmt.Errorf("desk %d: %w", booking.DeskID, persistence.ErrNotFound)
			}
			return err
		}
		if !deskAvailable || !roomAvailable.Valid || !roomAvailable.Bool {
			return fmt.Errorf("desk %d: %w", booking.DeskID, persistence.ErrUnavailable)
		}

		var taken int
		_, err = tx.Execute(ctx, Statement{
			SQL: `SELECT COUNT(*) FROM bookings
				WHERE booking_date = ? AND (desk_id = ? OR user_id = ?)`,
			Args: []any{date, booking.DeskID, booking.UserID},
		}, FetchOne, func(row Row) error {
			return row.Scan(&taken)
		})
		if err != nil {
			return err
		}
		if taken > 0 {
			return fmt.Errorf("booking on %s: %w", date, persistence.ErrDuplicate)
		}

		result, err := tx.Execute(ctx, Statement{
			SQL: `INSERT INTO bookings (user_id, desk_id, booking_date, booking_timestamp)
				VALUES (?, ?, ?, ?)`,
			Args: []any{booking.UserID, booking.DeskID, date, booking.CreatedAt.Format(time.RFC3339)},
		}, FetchNone, nil)
		if err != nil {
			return err
		}
		booking.ID = result.LastInsertID
		return nil
	})
	if err != nil {
		return persistence.Booking{}, err
	}

	return booking, nil
}

// GetBooking retrieves a booking by ID
func (r *BookingRepository) GetBooking(ctx context.Context, id int64) (persistence.Booking, error) {
	var booking persistence.Booking
	_, err := r.exec.Execute(ctx, Statement{
		SQL: `SELECT booking_id, user_id, desk_id, booking_date, booking_timestamp
			FROM bookings WHERE booking_id = ?`,
		Args: []any{id},
	}, FetchOne, func(row Row) error {
		var date, createdAt string
		if err := row.Scan(&booking.ID, &booking.UserID, &booking.DeskID, &date, &createdAt); err != nil {
			return fmt.Errorf("sqlite: scan booking: %w", err)
		}
		return parseBookingTimes(&booking, date, createdAt)
	})
	if err != nil {
		return persistence.Booking{}, err
	}
	return booking, nil
}

// ListBookings returns bookings joined with user, desk and room, ordered by
// date then desk number.
func (r *BookingRepository) ListBookings(ctx context.Context, filter persistence.BookingFilter) ([]persistence.BookingDetail, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.UserID != nil {
		conditions = append(conditions, "b.user_id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.DeskID != nil {
		conditions = append(conditions, "b.desk_id = ?")
		args = append(args, *filter.DeskID)
	}
	if filter.On != nil {
		conditions = append(conditions, "b.booking_date = ?")
		args = append(args, filter.On.Format(persistence.DateLayout))
	}
	if filter.From != nil {
		conditions = append(conditions, "b.booking_date >= ?")
		args = append(args, filter.From.Format(persistence.DateLayout))
	}
	if filter.Before != nil {
		conditions = append(conditions, "b.booking_date < ?")
		args = append(args, filter.Before.Format(persistence.DateLayout))
	}

	query := `SELECT b.booking_id, b.user_id, b.desk_id, b.booking_date, b.booking_timestamp,
			u.username, d.desk_number, d.room_id, r.room_name
		FROM bookings b
		JOIN users u ON u.user_id = b.user_id
		JOIN desks d ON d.desk_id = b.desk_id
		LEFT JOIN rooms r ON r.room_id = d.room_id`
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY b.booking_date ASC, d.desk_number ASC, b.booking_id ASC"

	var details []persistence.BookingDetail
	_, err := r.exec.Execute(ctx, Statement{SQL: query, Args: args}, FetchAll, func(row Row) error {
		var detail persistence.BookingDetail
		var date, createdAt string
		var roomID sql.NullInt64
		var roomName sql.NullString

		if err := row.Scan(
			&detail.ID,
			&detail.UserID,
			&detail.DeskID,
			&date,
			&createdAt,
			&detail.UserName,
			&detail.DeskNumber,
			&roomID,
			&roomName,
		); err != nil {
			return fmt.Errorf("sqlite: scan booking detail: %w", err)
		}
		if err := parseBookingTimes(&detail.Booking, date, createdAt); err != nil {
			return err
		}
		detail.RoomID = int64Ptr(roomID)
		detail.RoomName = stringPtr(roomName)

		details = append(details, detail)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

// DeleteBooking removes a booking by ID
func (r *BookingRepository) DeleteBooking(ctx context.Context, id int64) error {
	result, err := r.exec.Execute(ctx, Statement{
		SQL:  `DELETE FROM bookings WHERE booking_id = ?`,
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

func parseBookingTimes(booking *persistence.Booking, date, createdAt string) error {
	var err error
	if booking.Date, err = time.Parse(persistence.DateLayout, date); err != nil {
		return fmt.Errorf("sqlite: parse booking_date: %w", err)
	}
	if booking.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return fmt.Errorf("sqlite: parse booking_timestamp: %w", err)
	}
	return nil
}
