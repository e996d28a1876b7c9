package persistence

import (
	"context"
	"time"
)

// UserRepository exposes CRUD operations for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	// EnsureUser inserts the user when no row with the same ID exists and
	// reports whether a row was created. Existing rows are never modified.
	EnsureUser(ctx context.Context, user User) (bool, error)
	GetUser(ctx context.Context, id int64) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	SetAdmin(ctx context.Context, id int64, admin bool) error
	SetDelisted(ctx context.Context, id int64, delisted bool) error
	DeleteUser(ctx context.Context, id int64) error
}

// RoomRepository exposes CRUD operations for rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id int64) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id int64) error
}

// DeskRepository exposes CRUD operations for desks.
type DeskRepository interface {
	CreateDesk(ctx context.Context, desk Desk) (Desk, error)
	UpdateDesk(ctx context.Context, desk Desk) error
	GetDesk(ctx context.Context, id int64) (Desk, error)
	ListDesks(ctx context.Context) ([]Desk, error)
	ListDesksInRoom(ctx context.Context, roomID int64) ([]Desk, error)
	DeleteDesk(ctx context.Context, id int64) error
}

// BookingFilter narrows booking queries.
type BookingFilter struct {
	UserID *int64
	DeskID *int64
	On     *time.Time
	From   *time.Time
	// Before is exclusive.
	Before *time.Time
}

// BookingRepository stores desk reservations.
type BookingRepository interface {
	// CreateBooking reserves a desk for a date. The desk must exist, be
	// available and be free on that date, and the user must not hold another
	// booking for the same date. The checks and the insert share one
	// transaction.
	CreateBooking(ctx context.Context, booking Booking) (Booking, error)
	GetBooking(ctx context.Context, id int64) (Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]BookingDetail, error)
	DeleteBooking(ctx context.Context, id int64) error
}
