package persistence

import "time"

// DateLayout is the storage format of calendar dates.
const DateLayout = "2006-01-02"

// Room is a bookable area that owns desks.
type Room struct {
	ID        int64
	Name      string
	Available bool
	PlanURL   *string
	Note      *string
}

// Desk is a bookable seat. RoomID becomes nil once its room is deleted.
type Desk struct {
	ID        int64
	RoomID    *int64
	Number    int
	Available bool
	Note      *string
}

// User is an actor known to the assistant. ID is the identity assigned by the
// chat network, never generated locally.
type User struct {
	ID           int64
	Name         string
	IsAdmin      bool
	IsDelisted   bool
	RegisteredAt time.Time
}

// Booking reserves one desk for one calendar date.
type Booking struct {
	ID        int64
	UserID    int64
	DeskID    int64
	Date      time.Time
	CreatedAt time.Time
}

// BookingDetail is a booking joined with its desk and room for display.
type BookingDetail struct {
	Booking
	UserName   string
	DeskNumber int
	RoomID     *int64
	RoomName   *string
}
