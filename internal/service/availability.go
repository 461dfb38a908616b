// Package service contains the business logic for the booking API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campstead/booking-api/internal/domain"
	"github.com/campstead/booking-api/internal/metrics"
	"github.com/campstead/booking-api/internal/repo"
)

// AvailabilityService answers "is this unit free for these dates?" queries.
//
// The answer is advisory: it is computed from a plain read without locks, so
// a positive result can be invalidated by a concurrent write at any time.
// Booking creation re-validates inside its own transaction, which is why
// this service may safely run outside one.
type AvailabilityService struct {
	units    repo.UnitRepo
	bookings repo.BookingRepo
}

// NewAvailabilityService constructs an AvailabilityService backed by
// pool-backed (non-transactional) repos.
func NewAvailabilityService(units repo.UnitRepo, bookings repo.BookingRepo) *AvailabilityService {
	return &AvailabilityService{units: units, bookings: bookings}
}

// Check reports, for each requested unit, whether the half-open range
// [checkIn, checkOut) is free of PENDING and CONFIRMED bookings. A pending
// booking is a soft hold: it blocks availability even though the hard
// uniqueness invariant is only about confirmed and completed stays.
//
// Returns domain.ErrValidation for an empty unit list or a non-positive
// range, and domain.ErrNotFound if any requested unit does not exist.
func (s *AvailabilityService) Check(ctx context.Context, unitIDs []uuid.UUID, checkIn, checkOut time.Time) ([]domain.UnitAvailability, error) {
	if len(unitIDs) == 0 {
		return nil, fmt.Errorf("service.AvailabilityService.Check: %w: at least one unit id is required", domain.ErrValidation)
	}

	sr, err := domain.NewStayRange(checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("service.AvailabilityService.Check: %w", err)
	}

	unitIDs = dedupe(unitIDs)

	known, err := s.units.GetByIDs(ctx, unitIDs)
	if err != nil {
		return nil, fmt.Errorf("service.AvailabilityService.Check: %w", err)
	}
	byID := make(map[uuid.UUID]struct{}, len(known))
	for _, u := range known {
		byID[u.ID] = struct{}{}
	}
	for _, id := range unitIDs {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("service.AvailabilityService.Check: unit %s: %w", id, domain.ErrNotFound)
		}
	}

	results := make([]domain.UnitAvailability, 0, len(unitIDs))
	for _, id := range unitIDs {
		holds, err := s.bookings.ListActiveByUnit(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("service.AvailabilityService.Check: %w", err)
		}

		conflicts := []domain.ConflictRange{}
		for _, b := range holds {
			if b.Range().Overlaps(sr) {
				conflicts = append(conflicts, redactBooking(b))
			}
		}

		result := "available"
		if len(conflicts) > 0 {
			result = "conflict"
		}
		metrics.AvailabilityChecksTotal.WithLabelValues(result).Inc()

		results = append(results, domain.UnitAvailability{
			UnitID:           id,
			Available:        len(conflicts) == 0,
			ConflictingCount: len(conflicts),
			Conflicts:        conflicts,
		})
	}

	return results, nil
}

// dedupe removes duplicate unit ids while preserving first-seen order.
func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// redactBooking strips a booking down to the fields safe to expose in a
// conflict report: dates and status, never guest data.
func redactBooking(b domain.Booking) domain.ConflictRange {
	return domain.ConflictRange{
		BookingID: b.ID,
		CheckIn:   b.CheckIn.Format("2006-01-02"),
		CheckOut:  b.CheckOut.Format("2006-01-02"),
		Status:    b.Status,
	}
}
