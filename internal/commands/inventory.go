package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/deskbooker/internal/application"
	"github.com/example/deskbooker/internal/dispatch"
)

func (h *Handlers) viewRooms(ctx context.Context, inv *dispatch.Invocation) error {
	overviews, err := h.rooms.ListRooms(ctx)
	if err != nil {
		return h.fail(ctx, inv, "Room", err)
	}
	detached, err := h.rooms.DetachedDesks(ctx)
	if err != nil {
		return h.fail(ctx, inv, "Room", err)
	}
	if len(overviews) == 0 && len(detached) == 0 {
		return inv.Reply(ctx, "No rooms yet.")
	}

	var b strings.Builder
	b.WriteString("Rooms:")
	if len(overviews) == 0 {
		b.WriteString("\nnone")
	}
	for _, o := range overviews {
		fmt.Fprintf(&b, "\n%s (room %d, %s)", o.Room.Name, o.Room.ID, availability(o.Room.Available))
		if o.Room.PlanURL != nil {
			fmt.Fprintf(&b, "\n  plan: %s", *o.Room.PlanURL)
		}
		for _, d := range o.Desks {
			fmt.Fprintf(&b, "\n  desk %d (id %d, %s)", d.Number, d.ID, availability(d.Available))
		}
	}
	if len(detached) > 0 {
		b.WriteString("\nDesks without a room:")
		for _, d := range detached {
			fmt.Fprintf(&b, "\n  desk %d (id %d, %s)", d.Number, d.ID, availability(d.Available))
		}
	}
	return inv.Reply(ctx, b.String())
}

func (h *Handlers) addRoom(ctx context.Context, inv *dispatch.Invocation) error {
	name, err := restArg(inv, 0)
	if err != nil {
		return h.fail(ctx, inv, "Room", err)
	}
	room, err := h.rooms.AddRoom(ctx, name)
	if err != nil {
		return h.fail(ctx, inv, "Room", err)
	}
	return inv.Reply(ctx, fmt.Sprintf("Room %q added with id %d.", room.Name, room.ID))
}

func (h *Handlers) editRoomName(ctx context.Context, inv *dispatch.Invocation) error {
	id, err := intArg(inv, 0)
	if err != nil {
		return h.fail(ctx, inv, "Room", err)
	}
	name, err := restArg(inv, 1)
	if err == nil {
		err = h.rooms.RenameRoom(ctx, id, name)
	}
	if err != nil {
		return h.fail(ctx, inv, "Room", err)
	}
	return inv.Reply(ctx, fmt.Sprintf("Room %d renamed to %q.", id, name))
}

func (h *Handlers) editPlanURL(ctx context.Context, inv *dispatch.Invocation) error {
	id, err := intArg(inv, 0)
	if err != nil || len(inv.Args) != 2 {
		return h.fail(ctx, inv, "Room", errUsage)
	}
	if err := h.rooms.SetPlanURL(ctx, id, inv.Args[1]); err != nil {
		return h.fail(ctx, inv, "Room", err)
	}
	return inv.Reply(ctx, fmt.Sprintf("Plan of room %d updated.", id))
}

func (h *Handlers) setRoomAvailability(ctx context.Context, inv *dispatch.Invocation) error {
	id, available, err := idAndFlag(inv)
	if err == nil {
		err = h.rooms.SetAvailability(ctx, id, available)
	}
	if err != nil {
		return h.fail(ctx, inv, "Room", err)
	}
	return inv.Reply(ctx, fmt.Sprintf("Room %d is now %s.", id, availability(available)))
}

func (h *Handlers) removeRoom(ctx context.Context, inv *dispatch.Invocation) error {
	id, err := intArg(inv, 0)
	if err == nil {
		err = h.rooms.RemoveRoom(ctx, id)
	}
	if err != nil {
		return h.fail(ctx, inv, "Room", err)
	}
	return inv.Reply(ctx, fmt.Sprintf("Room %d removed. Its desks are kept without a room.", id))
}

func (h *Handlers) addDesk(ctx context.Context, inv *dispatch.Invocation) error {
	roomID, number, err := idAndNumber(inv)
	if err != nil {
		return h.fail(ctx, inv, "Desk", err)
	}
	desk, err := h.desks.AddDesk(ctx, roomID, number)
	if err != nil {
		subject := fmt.Sprintf("Desk %d in room %d", number, roomID)
		if errors.Is(err, application.ErrNotFound) {
			subject = "Room"
		}
		return h.fail(ctx, inv, subject, err)
	}
	return inv.Reply(ctx, fmt.Sprintf("Desk %d added to room %d with id %d.", desk.Number, roomID, desk.ID))
}

func (h *Handlers) editDeskNumber(ctx context.Context, inv *dispatch.Invocation) error {
	deskID, number, err := idAndNumber(inv)
	if err == nil {
		err = h.desks.RenumberDesk(ctx, deskID, number)
	}
	if err != nil {
		return h.fail(ctx, inv, "Desk", err)
	}
	return inv.Reply(ctx, fmt.Sprintf("Desk %d is now number %d.", deskID, number))
}

func (h *Handlers) setDeskAvailability(ctx context.Context, inv *dispatch.Invocation) error {
	id, available, err := idAndFlag(inv)
	if err == nil {
		err = h.desks.SetAvailability(ctx, id, available)
	}
	if err != nil {
		return h.fail(ctx, inv, "Desk", err)
	}
	return inv.Reply(ctx, fmt.Sprintf("Desk %d is now %s.", id, availability(available)))
}

func (h *Handlers) removeDesk(ctx context.Context, inv *dispatch.Invocation) error {
	id, err := intArg(inv, 0)
	if err == nil {
		err = h.desks.RemoveDesk(ctx, id)
	}
	if err != nil {
		return h.fail(ctx, inv, "Desk", err)
	}
	return inv.Reply(ctx, fmt.Sprintf("Desk %d removed together with its bookings.", id))
}

func idAndNumber(inv *dispatch.Invocation) (int64, int, error) {
	id, err := intArg(inv, 0)
	if err != nil {
		return 0, 0, err
	}
	number, err := intArg(inv, 1)
	if err != nil {
		return 0, 0, err
	}
	return id, int(number), nil
}

func idAndFlag(inv *dispatch.Invocation) (int64, bool, error) {
	id, err := intArg(inv, 0)
	if err != nil {
		return 0, false, err
	}
	flag, err := boolArg(inv, 1)
	if err != nil {
		return 0, false, err
	}
	return id, flag, nil
}
