package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/deskbooker/internal/persistence"
)

// DefaultBookingHorizon is how many days ahead a desk may be booked.
const DefaultBookingHorizon = 14

// BookingService books and cancels desks.
type BookingService struct {
	bookings persistence.BookingRepository
	horizon  int
	now      func() time.Time
	logger   *slog.Logger
}

// NewBookingService wires dependencies for booking operations. horizonDays
// below one falls back to DefaultBookingHorizon.
func NewBookingService(bookings persistence.BookingRepository, horizonDays int, now func() time.Time, logger *slog.Logger) *BookingService {
	if horizonDays < 1 {
		horizonDays = DefaultBookingHorizon
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{bookings: bookings, horizon: horizonDays, now: now, logger: defaultLogger(logger)}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// Today returns the current calendar date in UTC.
func (s *BookingService) Today() time.Time {
	return truncateToDate(s.now())
}

// Horizon returns the booking horizon in days.
func (s *BookingService) Horizon() int {
	return s.horizon
}

// Book reserves a desk for a date between today and today plus the horizon.
func (s *BookingService) Book(ctx context.Context, params BookDeskParams) (booking persistence.Booking, err error) {
	logger := s.loggerWith(ctx, "Book",
		"user_id", params.UserID,
		"desk_id", params.DeskID,
		"date", params.Date.Format(persistence.DateLayout),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to book desk", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", booking.ID).InfoContext(ctx, "desk booked")
	}()

	date := truncateToDate(params.Date)
	today := s.Today()
	last := today.AddDate(0, 0, s.horizon)
	switch {
	case date.Before(today):
		return persistence.Booking{}, invalid("date", "date is in the past")
	case date.After(last):
		return persistence.Booking{}, invalid("date", fmt.Sprintf("bookings open %d days ahead, until %s", s.horizon, last.Format(persistence.DateLayout)))
	}

	booking, err = s.bookings.CreateBooking(ctx, persistence.Booking{
		UserID: params.UserID,
		DeskID: params.DeskID,
		Date:   date,
	})
	if err != nil {
		return persistence.Booking{}, mapRepoError(err, ErrConflict)
	}
	return booking, nil
}

// Cancel deletes one of the actor's own bookings.
func (s *BookingService) Cancel(ctx context.Context, params CancelBookingParams) (err error) {
	logger := s.loggerWith(ctx, "Cancel", "user_id", params.UserID, "booking_id", params.BookingID)
	defer func() { logOutcome(ctx, logger, err, "booking cancelled") }()

	var booking persistence.Booking
	booking, err = s.bookings.GetBooking(ctx, params.BookingID)
	if err != nil {
		return mapRepoError(err, ErrConflict)
	}
	if booking.UserID != params.UserID {
		return ErrUnauthorized
	}

	if err = s.bookings.DeleteBooking(ctx, params.BookingID); err != nil {
		return mapRepoError(err, ErrConflict)
	}
	return nil
}

// Upcoming lists the actor's bookings from today on.
func (s *BookingService) Upcoming(ctx context.Context, userID int64) ([]persistence.BookingDetail, error) {
	today := s.Today()
	details, err := s.bookings.ListBookings(ctx, persistence.BookingFilter{UserID: &userID, From: &today})
	if err != nil {
		return nil, fmt.Errorf("list bookings of user %d: %w", userID, mapRepoError(err, ErrConflict))
	}
	return details, nil
}

// History lists the actor's bookings before today.
func (s *BookingService) History(ctx context.Context, userID int64) ([]persistence.BookingDetail, error) {
	today := s.Today()
	details, err := s.bookings.ListBookings(ctx, persistence.BookingFilter{UserID: &userID, Before: &today})
	if err != nil {
		return nil, fmt.Errorf("list booking history of user %d: %w", userID, mapRepoError(err, ErrConflict))
	}
	return details, nil
}

// All lists every booking, or only those on date when it is set.
func (s *BookingService) All(ctx context.Context, date *time.Time) ([]persistence.BookingDetail, error) {
	filter := persistence.BookingFilter{}
	if date != nil {
		day := truncateToDate(*date)
		filter.On = &day
	}
	details, err := s.bookings.ListBookings(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", mapRepoError(err, ErrConflict))
	}
	return details, nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(persistence.DateLayout, value)
	if err != nil {
		return time.Time{}, invalid("date", "date must look like YYYY-MM-DD")
	}
	return date, nil
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
