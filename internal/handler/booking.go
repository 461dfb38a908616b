package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/campstead/booking-api/internal/domain"
	"github.com/campstead/booking-api/internal/service"
)

// createBookingRequest is the JSON body for POST /bookings.
type createBookingRequest struct {
	UnitID     uuid.UUID          `json:"unit_id" validate:"required"`
	CheckIn    openapi_types.Date `json:"check_in" validate:"required"`
	CheckOut   openapi_types.Date `json:"check_out" validate:"required"`
	Adults     int                `json:"adults" validate:"required,min=1"`
	Children   int                `json:"children" validate:"min=0"`
	GuestName  string             `json:"guest_name" validate:"required"`
	GuestEmail string             `json:"guest_email" validate:"required,email"`
	AddOns     []addOnRequest     `json:"add_ons,omitempty" validate:"dive"`
	PaidInFull bool               `json:"paid_in_full"`
	AgentID    *uuid.UUID         `json:"agent_id,omitempty"`
}

type addOnRequest struct {
	Name           string `json:"name" validate:"required"`
	UnitPriceCents int64  `json:"unit_price_cents" validate:"min=0"`
	Quantity       int    `json:"quantity" validate:"min=1"`
}

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
}

// bookingResponse is the JSON shape for a booking in all responses.
type bookingResponse struct {
	ID         uuid.UUID  `json:"id"`
	UnitID     uuid.UUID  `json:"unit_id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	GuestName  string     `json:"guest_name"`
	CheckIn    string     `json:"check_in"`
	CheckOut   string     `json:"check_out"`
	Adults     int        `json:"adults"`
	Children   int        `json:"children"`
	TotalCents int64      `json:"total_cents"`
	Status     string     `json:"status"`
	AgentID    *uuid.UUID `json:"agent_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type quoteResponse struct {
	Nights     int   `json:"nights"`
	BaseCents  int64 `json:"base_cents"`
	AddOnCents int64 `json:"add_on_cents"`
	TotalCents int64 `json:"total_cents"`
}

type createBookingResponse struct {
	Booking bookingResponse `json:"booking"`
	Quote   quoteResponse   `json:"quote"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID,
		UnitID:     b.UnitID,
		CustomerID: b.CustomerID,
		GuestName:  b.GuestName,
		CheckIn:    b.CheckIn.Format("2006-01-02"),
		CheckOut:   b.CheckOut.Format("2006-01-02"),
		Adults:     b.Adults,
		Children:   b.Children,
		TotalCents: b.TotalCents,
		Status:     string(b.Status),
		AgentID:    b.AgentID,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func toQuoteResponse(q domain.Quote) quoteResponse {
	return quoteResponse{
		Nights:     q.Nights,
		BaseCents:  q.BaseCents,
		AddOnCents: q.AddOnCents,
		TotalCents: q.TotalCents,
	}
}

// CreateBooking handles POST /bookings.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeValidatorError(w, err)
		return
	}

	addOns := make([]domain.AddOn, 0, len(req.AddOns))
	for _, a := range req.AddOns {
		addOns = append(addOns, domain.AddOn{
			Name:           a.Name,
			UnitPriceCents: a.UnitPriceCents,
			Quantity:       a.Quantity,
		})
	}

	booking, quote, err := s.bookings.Create(r.Context(), service.CreateParams{
		UnitID:     req.UnitID,
		CheckIn:    req.CheckIn.Time,
		CheckOut:   req.CheckOut.Time,
		Adults:     req.Adults,
		Children:   req.Children,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		AddOns:     addOns,
		PaidInFull: req.PaidInFull,
		AgentID:    req.AgentID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createBookingResponse{
		Booking: toBookingResponse(booking),
		Quote:   toQuoteResponse(quote),
	})
}

// GetBooking handles GET /bookings/{bookingID}.
func (s *Server) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "bookingID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid booking id")
		return
	}

	booking, err := s.bookings.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

// TransitionBooking handles POST /bookings/{bookingID}/transition.
func (s *Server) TransitionBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "bookingID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid booking id")
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeValidatorError(w, err)
		return
	}

	booking, err := s.bookings.Transition(r.Context(), id, domain.BookingStatus(req.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}
