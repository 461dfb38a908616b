package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/campstead/booking-api/internal/domain"
)

type unitResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
	MaxGuests        int       `json:"max_guests"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type unitListResponse struct {
	Units []unitResponse `json:"units"`
}

type unitBookingsResponse struct {
	Bookings []bookingResponse `json:"bookings"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

func toUnitResponse(u domain.Unit) unitResponse {
	return unitResponse{
		ID:               u.ID,
		Name:             u.Name,
		NightlyRateCents: u.NightlyRateCents,
		MaxGuests:        u.MaxGuests,
		Status:           string(u.Status),
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// ListUnits handles GET /units.
func (s *Server) ListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := s.units.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]unitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, toUnitResponse(u))
	}
	writeJSON(w, http.StatusOK, unitListResponse{Units: out})
}

// GetUnit handles GET /units/{unitID}.
func (s *Server) GetUnit(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "unitID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid unit id")
		return
	}

	unit, err := s.units.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUnitResponse(unit))
}

// ListUnitBookings handles GET /units/{unitID}/bookings with ?page= and ?limit=.
func (s *Server) ListUnitBookings(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "unitID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid unit id")
		return
	}

	p := paginationFromQuery(r)
	bookings, total, err := s.bookings.ListByUnit(r.Context(), id, p)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	writeJSON(w, http.StatusOK, unitBookingsResponse{
		Bookings: out,
		Total:    total,
		Page:     p.Page,
		Limit:    p.Limit,
	})
}

// paginationFromQuery parses ?page= and ?limit=, falling back to defaults on
// anything missing or unparseable.
func paginationFromQuery(r *http.Request) domain.PaginationParams {
	var page, limit *int
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		page = &v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = &v
	}
	return domain.NewPaginationParams(page, limit)
}
