package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle status of a booking. It is a closed
// enumeration: repos reject unknown values at the schema level and services
// only mutate it through Transition, never by direct assignment.
type BookingStatus string

const (
	// StatusPending is the initial state: the slot is held awaiting
	// confirmation or payment.
	StatusPending BookingStatus = "PENDING"
	// StatusConfirmed holds the calendar slot authoritatively.
	StatusConfirmed BookingStatus = "CONFIRMED"
	// StatusCompleted is terminal: the stay occurred.
	StatusCompleted BookingStatus = "COMPLETED"
	// StatusCancelled is terminal. Cancellation is a status, not a row
	// removal — bookings are never physically deleted.
	StatusCancelled BookingStatus = "CANCELLED"
)

// Valid reports whether s is one of the four known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// transitions is the complete table of allowed status transitions.
// Terminal states (COMPLETED, CANCELLED) have no outgoing edges, and
// CONFIRMED can never go back to PENDING.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether the state machine allows from → to.
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range transitions[from] {
		if to == allowed {
			return true
		}
	}
	return false
}

// Booking is a reservation of one unit for a half-open date range.
type Booking struct {
	ID         uuid.UUID     `json:"id"`
	UnitID     uuid.UUID     `json:"unit_id"`
	CustomerID uuid.UUID     `json:"customer_id"`
	// GuestName is the occupant name as supplied on the creating request.
	// It is deliberately denormalized from Customer.FullName: one email may
	// be reused for differently named occupants, and each booking must
	// reflect who is actually staying.
	GuestName  string        `json:"guest_name"`
	CheckIn    time.Time     `json:"check_in"`
	CheckOut   time.Time     `json:"check_out"`
	Adults     int           `json:"adults"`
	Children   int           `json:"children"`
	TotalCents int64         `json:"total_cents"`
	Status     BookingStatus `json:"status"`
	AgentID    *uuid.UUID    `json:"agent_id,omitempty"` // nil unless placed through a sales agent
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Range returns the booking's stay interval.
func (b Booking) Range() StayRange {
	return StayRange{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

// Guests returns the total occupant count.
func (b Booking) Guests() int {
	return b.Adults + b.Children
}

// Transition validates and applies a status change. It is the only
// permitted mutation path for Status. Returns *InvalidTransitionError
// (matching ErrInvalidTransition) when the state machine forbids the move,
// including any transition out of a terminal state.
func (b *Booking) Transition(to BookingStatus, now time.Time) error {
	if !CanTransition(b.Status, to) {
		return &InvalidTransitionError{From: b.Status, To: to}
	}
	b.Status = to
	b.UpdatedAt = now.UTC()
	return nil
}

// HoldsSlot reports whether the booking occupies its calendar slot for
// conflict purposes. Cancelled bookings free their range; everything else
// (a pending hold, a confirmed stay, a completed stay) keeps it occupied.
func (b Booking) HoldsSlot() bool {
	return b.Status != StatusCancelled
}
