package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/deskbooker/internal/application"
	"github.com/example/deskbooker/internal/dispatch"
	"github.com/example/deskbooker/internal/persistence"
)

func (h *Handlers) book(ctx context.Context, inv *dispatch.Invocation) error {
	if len(inv.Args) != 2 {
		return h.fail(ctx, inv, "Desk", errUsage)
	}
	date, err := application.ParseDate(inv.Args[0])
	if err != nil {
		return h.fail(ctx, inv, "Desk", err)
	}
	deskID, err := intArg(inv, 1)
	if err != nil {
		return h.fail(ctx, inv, "Desk", err)
	}

	booking, err := h.bookings.Book(ctx, application.BookDeskParams{
		UserID: inv.Actor.ID,
		DeskID: deskID,
		Date:   date,
	})
	if err != nil {
		return h.fail(ctx, inv, "Desk", err)
	}
	return inv.Reply(ctx, fmt.Sprintf("Desk %d booked for %s (booking %d).",
		deskID, booking.Date.Format(persistence.DateLayout), booking.ID))
}

func (h *Handlers) cancelBooking(ctx context.Context, inv *dispatch.Invocation) error {
	id, err := intArg(inv, 0)
	if err == nil {
		err = h.bookings.Cancel(ctx, application.CancelBookingParams{UserID: inv.Actor.ID, BookingID: id})
	}
	if err != nil {
		return h.fail(ctx, inv, "Booking", err)
	}
	return inv.Reply(ctx, fmt.Sprintf("Booking %d cancelled.", id))
}

func (h *Handlers) myBookings(ctx context.Context, inv *dispatch.Invocation) error {
	details, err := h.bookings.Upcoming(ctx, inv.Actor.ID)
	if err != nil {
		return h.fail(ctx, inv, "Booking", err)
	}
	if len(details) == 0 {
		return inv.Reply(ctx, "You have no upcoming bookings.")
	}
	return inv.Reply(ctx, "Your bookings:"+formatBookings(details, false))
}

func (h *Handlers) history(ctx context.Context, inv *dispatch.Invocation) error {
	details, err := h.bookings.History(ctx, inv.Actor.ID)
	if err != nil {
		return h.fail(ctx, inv, "Booking", err)
	}
	if len(details) == 0 {
		return inv.Reply(ctx, "You have no past bookings.")
	}
	return inv.Reply(ctx, "Your past bookings:"+formatBookings(details, false))
}

func (h *Handlers) allBookings(ctx context.Context, inv *dispatch.Invocation) error {
	var date *time.Time
	switch len(inv.Args) {
	case 0:
	case 1:
		d, err := application.ParseDate(inv.Args[0])
		if err != nil {
			return h.fail(ctx, inv, "Booking", err)
		}
		date = &d
	default:
		return h.fail(ctx, inv, "Booking", errUsage)
	}

	details, err := h.bookings.All(ctx, date)
	if err != nil {
		return h.fail(ctx, inv, "Booking", err)
	}
	if len(details) == 0 {
		return inv.Reply(ctx, "No bookings.")
	}
	return inv.Reply(ctx, "Bookings:"+formatBookings(details, true))
}

func formatBookings(details []persistence.BookingDetail, withUser bool) string {
	var b strings.Builder
	for _, d := range details {
		room := "no room"
		if d.RoomName != nil {
			room = *d.RoomName
		}
		fmt.Fprintf(&b, "\n#%d %s desk %d (id %d, %s)",
			d.ID, d.Date.Format(persistence.DateLayout), d.DeskNumber, d.DeskID, room)
		if withUser {
			fmt.Fprintf(&b, " by %s (%d)", d.UserName, d.UserID)
		}
	}
	return b.String()
}
