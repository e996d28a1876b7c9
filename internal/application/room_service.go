package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/example/deskbooker/internal/persistence"
)

// RoomService manages rooms and the room listing shown to users.
type RoomService struct {
	rooms  persistence.RoomRepository
	desks  persistence.DeskRepository
	logger *slog.Logger
}

// NewRoomService constructs a room service with the provided dependencies.
func NewRoomService(rooms persistence.RoomRepository, desks persistence.DeskRepository, logger *slog.Logger) *RoomService {
	return &RoomService{rooms: rooms, desks: desks, logger: defaultLogger(logger)}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// AddRoom creates an available room.
func (s *RoomService) AddRoom(ctx context.Context, name string) (room persistence.Room, err error) {
	logger := s.loggerWith(ctx, "AddRoom")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", room.ID).InfoContext(ctx, "room added")
	}()

	name, vErr := validateName("room name", name)
	if vErr != nil {
		return persistence.Room{}, vErr
	}

	room, err = s.rooms.CreateRoom(ctx, persistence.Room{Name: name, Available: true})
	if err != nil {
		return persistence.Room{}, mapRepoError(err, ErrAlreadyExists)
	}
	return room, nil
}

// RenameRoom changes a room's display name.
func (s *RoomService) RenameRoom(ctx context.Context, roomID int64, name string) error {
	name, vErr := validateName("room name", name)
	if vErr != nil {
		return vErr
	}
	return s.update(ctx, "RenameRoom", roomID, func(room *persistence.Room) {
		room.Name = name
	})
}

// SetPlanURL stores the floor-plan reference of a room.
func (s *RoomService) SetPlanURL(ctx context.Context, roomID int64, rawURL string) error {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return invalid("plan url", "plan url must be an absolute http(s) URL")
	}
	plan := parsed.String()
	return s.update(ctx, "SetPlanURL", roomID, func(room *persistence.Room) {
		room.PlanURL = &plan
	})
}

// SetAvailability switches a room on or off for booking.
func (s *RoomService) SetAvailability(ctx context.Context, roomID int64, available bool) error {
	return s.update(ctx, "SetAvailability", roomID, func(room *persistence.Room) {
		room.Available = available
	})
}

func (s *RoomService) update(ctx context.Context, operation string, roomID int64, mutate func(*persistence.Room)) (err error) {
	logger := s.loggerWith(ctx, operation, "room_id", roomID)
	defer func() { logOutcome(ctx, logger, err, "room updated") }()

	var room persistence.Room
	room, err = s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return mapRepoError(err, ErrAlreadyExists)
	}

	mutate(&room)
	if err = s.rooms.UpdateRoom(ctx, room); err != nil {
		return mapRepoError(err, ErrAlreadyExists)
	}
	return nil
}

// RemoveRoom deletes a room. Its desks are kept without a room.
func (s *RoomService) RemoveRoom(ctx context.Context, roomID int64) (err error) {
	logger := s.loggerWith(ctx, "RemoveRoom", "room_id", roomID)
	defer func() { logOutcome(ctx, logger, err, "room removed") }()

	if err = s.rooms.DeleteRoom(ctx, roomID); err != nil {
		return mapRepoError(err, ErrAlreadyExists)
	}
	return nil
}

// ListRooms returns every room with its desks, ordered by room ID.
func (s *RoomService) ListRooms(ctx context.Context) ([]RoomOverview, error) {
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", mapRepoError(err, ErrAlreadyExists))
	}

	overviews := make([]RoomOverview, 0, len(rooms))
	for _, room := range rooms {
		desks, err := s.desks.ListDesksInRoom(ctx, room.ID)
		if err != nil {
			return nil, fmt.Errorf("list desks of room %d: %w", room.ID, mapRepoError(err, ErrAlreadyExists))
		}
		overviews = append(overviews, RoomOverview{Room: room, Desks: desks})
	}
	return overviews, nil
}

// DetachedDesks returns the desks whose room was removed.
func (s *RoomService) DetachedDesks(ctx context.Context) ([]persistence.Desk, error) {
	desks, err := s.desks.ListDesks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list desks: %w", mapRepoError(err, ErrAlreadyExists))
	}
	var detached []persistence.Desk
	for _, d := range desks {
		if d.RoomID == nil {
			detached = append(detached, d)
		}
	}
	return detached, nil
}
