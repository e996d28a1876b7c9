// Package commands implements the chat commands on top of the application
// services and registers them on a dispatch.Router with their tiers.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/deskbooker/internal/application"
	"github.com/example/deskbooker/internal/dispatch"
	"github.com/example/deskbooker/internal/logging"
	"github.com/example/deskbooker/internal/persistence"
)

type userService interface {
	Register(ctx context.Context, id int64, name string) (bool, error)
	AddUser(ctx context.Context, id int64, name string) error
	RemoveUser(ctx context.Context, id int64) error
	DelistUser(ctx context.Context, id int64) error
	RelistUser(ctx context.Context, id int64) error
	SetAdmin(ctx context.Context, id int64, admin bool) error
	ListUsers(ctx context.Context) ([]persistence.User, error)
}

type roomService interface {
	AddRoom(ctx context.Context, name string) (persistence.Room, error)
	RenameRoom(ctx context.Context, roomID int64, name string) error
	SetPlanURL(ctx context.Context, roomID int64, rawURL string) error
	SetAvailability(ctx context.Context, roomID int64, available bool) error
	RemoveRoom(ctx context.Context, roomID int64) error
	ListRooms(ctx context.Context) ([]application.RoomOverview, error)
	DetachedDesks(ctx context.Context) ([]persistence.Desk, error)
}

type deskService interface {
	AddDesk(ctx context.Context, roomID int64, number int) (persistence.Desk, error)
	RenumberDesk(ctx context.Context, deskID int64, number int) error
	SetAvailability(ctx context.Context, deskID int64, available bool) error
	RemoveDesk(ctx context.Context, deskID int64) error
}

type bookingService interface {
	Book(ctx context.Context, params application.BookDeskParams) (persistence.Booking, error)
	Cancel(ctx context.Context, params application.CancelBookingParams) error
	Upcoming(ctx context.Context, userID int64) ([]persistence.BookingDetail, error)
	History(ctx context.Context, userID int64) ([]persistence.BookingDetail, error)
	Horizon() int
	All(ctx context.Context, date *time.Time) ([]persistence.BookingDetail, error)
}

// Reporter renders the usage telemetry. telemetry.Counter implements it.
type Reporter interface {
	Report() string
}

// Deps collects what the command handlers need.
type Deps struct {
	Users    userService
	Rooms    roomService
	Desks    deskService
	Bookings bookingService
	Identity dispatch.Identity
	Stats    Reporter
	Logger   *slog.Logger
}

// Handlers holds the command implementations.
type Handlers struct {
	users    userService
	rooms    roomService
	desks    deskService
	bookings bookingService
	identity dispatch.Identity
	stats    Reporter
	logger   *slog.Logger

	routes []entry
	usage  map[string]string
}

type entry struct {
	route   dispatch.Route
	handler dispatch.Handler
}

// New builds the command table.
func New(deps Deps) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	h := &Handlers{
		users:    deps.Users,
		rooms:    deps.Rooms,
		desks:    deps.Desks,
		bookings: deps.Bookings,
		identity: deps.Identity,
		stats:    deps.Stats,
		logger:   logger.With("component", "commands"),
	}
	h.routes = h.table()
	h.usage = make(map[string]string, len(h.routes))
	for _, e := range h.routes {
		h.usage[e.route.Command] = e.route.Usage
	}
	return h
}

// Register adds every command to router.
func (h *Handlers) Register(router *dispatch.Router) {
	for _, e := range h.routes {
		router.Handle(e.route, e.handler)
	}
}

func (h *Handlers) table() []entry {
	route := func(tier dispatch.Tier, command, usage, description string, handler dispatch.Handler) entry {
		return entry{
			route:   dispatch.Route{Command: command, Usage: usage, Description: description, Tier: tier},
			handler: handler,
		}
	}

	return []entry{
		route(dispatch.TierPublic, "/start", "/start [name]", "register yourself", h.start),
		route(dispatch.TierPublic, "/help", "/help", "show the commands you can use", h.help),

		route(dispatch.TierUser, "/book", "/book <YYYY-MM-DD> <desk_id>",
			fmt.Sprintf("book a desk for a date up to %d days ahead", h.bookings.Horizon()), h.book),
		route(dispatch.TierUser, "/cancel_booking", "/cancel_booking <booking_id>", "cancel one of your bookings", h.cancelBooking),
		route(dispatch.TierUser, "/my_bookings", "/my_bookings", "list your upcoming bookings", h.myBookings),
		route(dispatch.TierUser, "/history", "/history", "list your past bookings", h.history),
		route(dispatch.TierUser, "/view_rooms", "/view_rooms", "list rooms and desks", h.viewRooms),

		route(dispatch.TierAdmin, "/all_bookings", "/all_bookings [YYYY-MM-DD]", "list all bookings", h.allBookings),
		route(dispatch.TierAdmin, "/add_user", "/add_user <user_id> <name>", "register another user", h.addUser),
		route(dispatch.TierAdmin, "/remove_user", "/remove_user <user_id>", "delete a user", h.removeUser),
		route(dispatch.TierAdmin, "/delist_user", "/delist_user <user_id>", "revoke a user's access", h.delistUser),
		route(dispatch.TierAdmin, "/list_user", "/list_user <user_id>", "restore a delisted user's access", h.listUser),
		route(dispatch.TierAdmin, "/view_users", "/view_users", "list users", h.viewUsers),
		route(dispatch.TierAdmin, "/add_room", "/add_room <name>", "create a room", h.addRoom),
		route(dispatch.TierAdmin, "/edit_room_name", "/edit_room_name <room_id> <name>", "rename a room", h.editRoomName),
		route(dispatch.TierAdmin, "/edit_plan_url", "/edit_plan_url <room_id> <url>", "set a room's floor plan", h.editPlanURL),
		route(dispatch.TierAdmin, "/set_room_availability", "/set_room_availability <room_id> <0|1>", "open or close a room", h.setRoomAvailability),
		route(dispatch.TierAdmin, "/remove_room", "/remove_room <room_id>", "delete a room, keeping its desks", h.removeRoom),
		route(dispatch.TierAdmin, "/add_desk", "/add_desk <room_id> <number>", "create a desk", h.addDesk),
		route(dispatch.TierAdmin, "/edit_desk_number", "/edit_desk_number <desk_id> <number>", "renumber a desk", h.editDeskNumber),
		route(dispatch.TierAdmin, "/set_desk_availability", "/set_desk_availability <desk_id> <0|1>", "open or close a desk", h.setDeskAvailability),
		route(dispatch.TierAdmin, "/remove_desk", "/remove_desk <desk_id>", "delete a desk and its bookings", h.removeDesk),

		route(dispatch.TierSuperadmin, "/make_admin", "/make_admin <user_id>", "grant admin rights", h.makeAdmin),
		route(dispatch.TierSuperadmin, "/revoke_admin", "/revoke_admin <user_id>", "revoke admin rights", h.revokeAdmin),
		route(dispatch.TierSuperadmin, "/view_stats", "/view_stats", "show command usage", h.viewStats),
	}
}

func (h *Handlers) log(ctx context.Context, inv *dispatch.Invocation) *slog.Logger {
	return logging.FromContextOr(ctx, h.logger).With("handler", inv.Command)
}
