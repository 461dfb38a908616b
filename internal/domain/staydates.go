// Package domain contains the core data types for the booking API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"fmt"
	"time"
)

// StayRange is a half-open date interval [CheckIn, CheckOut).
// The check-in day is included and the check-out day is excluded, so one
// booking's check-out may equal another's check-in (same-day turnover).
// Both dates are normalized to midnight UTC by NewStayRange.
type StayRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewStayRange builds a StayRange from raw check-in/check-out timestamps.
// Both are truncated to their day boundary in UTC before validation.
// Returns ErrValidation unless check-out is strictly after check-in
// (minimum stay is one night).
func NewStayRange(checkIn, checkOut time.Time) (StayRange, error) {
	r := StayRange{
		CheckIn:  DayStart(checkIn),
		CheckOut: DayStart(checkOut),
	}
	if !r.CheckOut.After(r.CheckIn) {
		return StayRange{}, fmt.Errorf("%w: check_out must be after check_in", ErrValidation)
	}
	return r, nil
}

// DayStart truncates t to midnight UTC of the same calendar day.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether two half-open intervals intersect:
// a1 < b2 && b1 < a2. Shared boundary days do not count as overlap,
// and a zero-length interval never overlaps anything.
func (r StayRange) Overlaps(o StayRange) bool {
	return r.CheckIn.Before(o.CheckOut) && o.CheckIn.Before(r.CheckOut)
}

// Nights returns the number of nights in the range.
// Always >= 1 for a range built by NewStayRange.
func (r StayRange) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}
