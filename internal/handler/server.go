// Package handler implements the HTTP handlers for the booking API.
// All handlers are methods on Server; methods are split into domain-specific
// files (booking.go, availability.go, etc.) but share the same Server struct
// so they can access its dependencies.
//
// The three entry surfaces (public site, staff console, agent portal)
// authenticate upstream and call these routes identically; no per-surface
// booking logic lives here.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/campstead/booking-api/internal/domain"
	"github.com/campstead/booking-api/internal/service"
)

// BookingServicer defines the business operations the booking handlers
// depend on. Defining the interface here (in the consumer package) follows
// the Go convention: "accept interfaces, return concrete types". It lets
// handler tests inject a mock without touching the database or service layer.
type BookingServicer interface {
	Create(ctx context.Context, p service.CreateParams) (domain.Booking, domain.Quote, error)
	Transition(ctx context.Context, id uuid.UUID, target domain.BookingStatus) (domain.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	ListByUnit(ctx context.Context, unitID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error)
}

// AvailabilityServicer defines the availability query the handlers depend on.
type AvailabilityServicer interface {
	Check(ctx context.Context, unitIDs []uuid.UUID, checkIn, checkOut time.Time) ([]domain.UnitAvailability, error)
}

// UnitServicer defines the catalog reads the handlers depend on.
type UnitServicer interface {
	List(ctx context.Context) ([]domain.Unit, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Unit, error)
}

// Server holds all HTTP handler dependencies.
type Server struct {
	bookings     BookingServicer
	availability AvailabilityServicer
	units        UnitServicer
	validate     *validator.Validate
}

// NewServer constructs the Server with all its dependencies.
func NewServer(bookings BookingServicer, availability AvailabilityServicer, units UnitServicer) *Server {
	return &Server{
		bookings:     bookings,
		availability: availability,
		units:        units,
		validate:     validator.New(),
	}
}

// Routes returns the API route tree. Mount it under /api/v1.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/availability", s.CheckAvailability)

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", s.CreateBooking)
		r.Get("/{bookingID}", s.GetBooking)
		r.Post("/{bookingID}/transition", s.TransitionBooking)
	})

	r.Route("/units", func(r chi.Router) {
		r.Get("/", s.ListUnits)
		r.Get("/{unitID}", s.GetUnit)
		r.Get("/{unitID}/bookings", s.ListUnitBookings)
	})

	return r
}

// pathUUID parses a chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}
