package testfixtures

import (
	"log/slog"

	"github.com/example/deskbooker/internal/application"
	"github.com/example/deskbooker/internal/persistence/sqlite"
)

// Services bundles the application services built on one store.
type Services struct {
	Users    *application.UserService
	Rooms    *application.RoomService
	Desks    *application.DeskService
	Bookings *application.BookingService
}

// ServiceFactory assists tests with constructing application services using
// a deterministic clock.
type ServiceFactory struct {
	Clock          *Clock
	Logger         *slog.Logger
	BookingHorizon int
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:          NewClock(referenceTime),
		Logger:         slog.New(slog.DiscardHandler),
		BookingHorizon: application.DefaultBookingHorizon,
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(referenceTime)
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithBookingHorizon overrides how many days ahead bookings are accepted.
func WithBookingHorizon(days int) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.BookingHorizon = days
	}
}

// NewServices wires every application service to store.
func (f *ServiceFactory) NewServices(store *sqlite.Store) Services {
	return Services{
		Users:    application.NewUserService(store.Users, f.Logger),
		Rooms:    application.NewRoomService(store.Rooms, store.Desks, f.Logger),
		Desks:    application.NewDeskService(store.Rooms, store.Desks, f.Logger),
		Bookings: application.NewBookingService(store.Bookings, f.BookingHorizon, f.Clock.NowFunc(), f.Logger),
	}
}
