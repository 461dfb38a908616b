package domain

import (
	"time"

	"github.com/google/uuid"
)

// UnitStatus is the lifecycle status of a lodging unit.
// Only ACTIVE units accept new bookings.
type UnitStatus string

const (
	UnitDraft    UnitStatus = "DRAFT"
	UnitActive   UnitStatus = "ACTIVE"
	UnitInactive UnitStatus = "INACTIVE"
)

// Unit is a bookable lodging item with a nightly rate and capacity.
// Units are owned by the catalog subsystem; the booking core reads them
// read-only and never mutates them.
type Unit struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	NightlyRateCents int64      `json:"nightly_rate_cents"`
	MaxGuests        int        `json:"max_guests"`
	Status           UnitStatus `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Bookable reports whether the unit currently accepts new bookings.
func (u Unit) Bookable() bool {
	return u.Status == UnitActive
}
