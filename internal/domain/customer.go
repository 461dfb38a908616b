package domain

import (
	"time"

	"github.com/google/uuid"
)

// CustomerRole distinguishes guest identities from staff and agent accounts.
// A booking may only reference a GUEST identity; emails already bound to a
// STAFF or AGENT account must reject booking creation.
type CustomerRole string

const (
	RoleGuest CustomerRole = "GUEST"
	RoleStaff CustomerRole = "STAFF"
	RoleAgent CustomerRole = "AGENT"
)

// Customer is the account record identified by email that attributes a
// booking to a person. Identity is determined by Email, which is always
// stored lowercased — the case-insensitive natural key for deduplication.
// FullName preserves the name supplied by the first request to use the email;
// per-booking guest names live on the booking itself (see Booking.GuestName).
type Customer struct {
	ID        uuid.UUID    `json:"id"`
	FullName  string       `json:"full_name"`
	Email     string       `json:"email"`
	Role      CustomerRole `json:"role"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
