package application

import (
	"time"

	"github.com/example/deskbooker/internal/persistence"
)

// RoomOverview is a room together with its desks.
type RoomOverview struct {
	Room  persistence.Room
	Desks []persistence.Desk
}

// BookDeskParams wraps the data required to book a desk.
type BookDeskParams struct {
	UserID int64
	DeskID int64
	Date   time.Time
}

// CancelBookingParams identifies a booking to cancel on behalf of an actor.
type CancelBookingParams struct {
	UserID    int64
	BookingID int64
}
