package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource (unit, booking, customer) does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. check-out not after check-in, occupancy over capacity,
// unit not open for booking).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrConflict is the sentinel matched by errors.Is for booking conflicts.
// The concrete error is always a *ConflictError carrying the conflict details.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("booking conflict")

// ErrRoleConflict is returned when a booking references an email that is
// already bound to a non-guest account (staff or agent). The caller must use
// a different email; the core never silently reuses a staff identity.
// Handlers should map this to HTTP 409.
var ErrRoleConflict = errors.New("email is bound to a non-guest account")

// ErrInvalidTransition is the sentinel matched by errors.Is for rejected
// status transitions. The concrete error is always a *InvalidTransitionError.
// Handlers should map this to HTTP 409.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrTxAborted is returned when the backing store aborted the transaction
// (lock timeout, serialization failure, deadlock, context deadline). No
// partial state survives an aborted transaction, so the whole call is safe
// to retry from scratch. Handlers should map this to HTTP 503.
var ErrTxAborted = errors.New("transaction aborted")

// ConflictRange is one conflicting booking as exposed to callers.
// It is deliberately redacted: dates and status only, no guest data.
type ConflictRange struct {
	BookingID uuid.UUID     `json:"booking_id"`
	CheckIn   string        `json:"check_in"`  // "2006-01-02"
	CheckOut  string        `json:"check_out"` // "2006-01-02"
	Status    BookingStatus `json:"status"`
}

// ConflictError reports that a requested date range overlaps one or more
// existing bookings for a unit. It satisfies errors.Is(err, ErrConflict).
type ConflictError struct {
	UnitID    uuid.UUID
	Conflicts []ConflictRange
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("unit %s: %d conflicting booking(s) in requested range", e.UnitID, len(e.Conflicts))
}

// Is makes errors.Is(err, ErrConflict) true for any *ConflictError.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// InvalidTransitionError reports a rejected booking status transition.
// Both the current and the requested status are carried so the caller can
// see exactly what was refused. Satisfies errors.Is(err, ErrInvalidTransition).
type InvalidTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition booking from %s to %s", e.From, e.To)
}

// Is makes errors.Is(err, ErrInvalidTransition) true for any *InvalidTransitionError.
func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }
