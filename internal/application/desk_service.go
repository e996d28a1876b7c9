package application

import (
	"context"
	"log/slog"

	"github.com/example/deskbooker/internal/persistence"
)

// DeskService manages desks.
type DeskService struct {
	rooms  persistence.RoomRepository
	desks  persistence.DeskRepository
	logger *slog.Logger
}

// NewDeskService constructs a desk service with the provided dependencies.
func NewDeskService(rooms persistence.RoomRepository, desks persistence.DeskRepository, logger *slog.Logger) *DeskService {
	return &DeskService{rooms: rooms, desks: desks, logger: defaultLogger(logger)}
}

func (s *DeskService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DeskService", operation, attrs...)
}

// AddDesk creates an available desk in an existing room. Numbers must be
// unique within the room.
func (s *DeskService) AddDesk(ctx context.Context, roomID int64, number int) (desk persistence.Desk, err error) {
	logger := s.loggerWith(ctx, "AddDesk", "room_id", roomID, "desk_number", number)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add desk", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("desk_id", desk.ID).InfoContext(ctx, "desk added")
	}()

	if number <= 0 {
		return persistence.Desk{}, invalid("desk number", "desk number must be positive")
	}
	if _, err = s.rooms.GetRoom(ctx, roomID); err != nil {
		return persistence.Desk{}, mapRepoError(err, ErrAlreadyExists)
	}
	if err = s.ensureNumberFree(ctx, roomID, number, 0); err != nil {
		return persistence.Desk{}, err
	}

	desk, err = s.desks.CreateDesk(ctx, persistence.Desk{RoomID: &roomID, Number: number, Available: true})
	if err != nil {
		return persistence.Desk{}, mapRepoError(err, ErrAlreadyExists)
	}
	return desk, nil
}

// RenumberDesk changes a desk's number.
func (s *DeskService) RenumberDesk(ctx context.Context, deskID int64, number int) error {
	if number <= 0 {
		return invalid("desk number", "desk number must be positive")
	}
	return s.update(ctx, "RenumberDesk", deskID, func(desk *persistence.Desk) error {
		if desk.RoomID != nil {
			if err := s.ensureNumberFree(ctx, *desk.RoomID, number, desk.ID); err != nil {
				return err
			}
		}
		desk.Number = number
		return nil
	})
}

// SetAvailability switches a desk on or off for booking.
func (s *DeskService) SetAvailability(ctx context.Context, deskID int64, available bool) error {
	return s.update(ctx, "SetAvailability", deskID, func(desk *persistence.Desk) error {
		desk.Available = available
		return nil
	})
}

func (s *DeskService) update(ctx context.Context, operation string, deskID int64, mutate func(*persistence.Desk) error) (err error) {
	logger := s.loggerWith(ctx, operation, "desk_id", deskID)
	defer func() { logOutcome(ctx, logger, err, "desk updated") }()

	var desk persistence.Desk
	desk, err = s.desks.GetDesk(ctx, deskID)
	if err != nil {
		return mapRepoError(err, ErrAlreadyExists)
	}

	if err = mutate(&desk); err != nil {
		return err
	}
	if err = s.desks.UpdateDesk(ctx, desk); err != nil {
		return mapRepoError(err, ErrAlreadyExists)
	}
	return nil
}

// RemoveDesk deletes a desk and, through the schema, its bookings.
func (s *DeskService) RemoveDesk(ctx context.Context, deskID int64) (err error) {
	logger := s.loggerWith(ctx, "RemoveDesk", "desk_id", deskID)
	defer func() { logOutcome(ctx, logger, err, "desk removed") }()

	if err = s.desks.DeleteDesk(ctx, deskID); err != nil {
		return mapRepoError(err, ErrAlreadyExists)
	}
	return nil
}

func (s *DeskService) ensureNumberFree(ctx context.Context, roomID int64, number int, exceptDeskID int64) error {
	desks, err := s.desks.ListDesksInRoom(ctx, roomID)
	if err != nil {
		return mapRepoError(err, ErrAlreadyExists)
	}
	for _, desk := range desks {
		if desk.Number == number && desk.ID != exceptDeskID {
			return ErrAlreadyExists
		}
	}
	return nil
}
