package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/campstead/booking-api/internal/domain"
	"github.com/campstead/booking-api/internal/metrics"
	"github.com/campstead/booking-api/internal/repo"
)

// holdStatuses are the booking statuses that occupy a calendar slot for the
// creation re-check: everything except CANCELLED. Matching the scope of the
// bookings exclusion constraint keeps the re-check and the constraint in
// agreement, so a constraint trip is always a genuine race, never a policy gap.
var holdStatuses = []domain.BookingStatus{
	domain.StatusPending,
	domain.StatusConfirmed,
	domain.StatusCompleted,
}

// maxCreateRetries bounds the automatic retries of a creation transaction
// after a transient store abort. Conflicts and validation failures are never
// retried — only aborts, which leave no partial state.
const maxCreateRetries = 2

// BookingService implements the transactional booking creation protocol and
// the status transition path. Every entry surface (public, staff, agent)
// funnels through these methods identically.
type BookingService struct {
	store     repo.Txer
	reads     repo.Repos
	txTimeout time.Duration
}

// NewBookingService constructs a BookingService.
// store owns transaction boundaries; reads is a pool-backed repo bundle used
// for non-transactional lookups (fetches, listings, conflict detail reads).
// txTimeout bounds every write transaction so creation fails fast instead of
// hanging on a contended lock.
func NewBookingService(store repo.Txer, reads repo.Repos, txTimeout time.Duration) *BookingService {
	if txTimeout <= 0 {
		txTimeout = 5 * time.Second
	}
	return &BookingService{store: store, reads: reads, txTimeout: txTimeout}
}

// CreateParams carries one booking creation request.
type CreateParams struct {
	UnitID     uuid.UUID
	CheckIn    time.Time
	CheckOut   time.Time
	Adults     int
	Children   int
	GuestName  string
	GuestEmail string
	AddOns     []domain.AddOn
	// PaidInFull selects the initial status: a fully paid booking starts
	// CONFIRMED, everything else starts PENDING.
	PaidInFull bool
	// AgentID optionally records the sales agent the booking was placed
	// through. Not validated against a roster here — agents are upstream
	// authenticated principals.
	AgentID *uuid.UUID
}

func (p CreateParams) validate() error {
	if strings.TrimSpace(p.GuestName) == "" {
		return fmt.Errorf("%w: guest name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(p.GuestEmail) == "" {
		return fmt.Errorf("%w: guest email is required", domain.ErrValidation)
	}
	if p.Adults < 1 {
		return fmt.Errorf("%w: at least one adult is required", domain.ErrValidation)
	}
	if p.Children < 0 {
		return fmt.Errorf("%w: children must not be negative", domain.ErrValidation)
	}
	return nil
}

func (p CreateParams) initialStatus() domain.BookingStatus {
	if p.PaidInFull {
		return domain.StatusConfirmed
	}
	return domain.StatusPending
}

// Create runs the whole creation protocol inside one atomically committed
// transaction: re-load the unit, check capacity, resolve the guest identity,
// re-check overlaps under row locks, price the stay, insert, commit. Any
// failure leaves zero partial state.
//
// Transient store aborts are retried a bounded number of times; conflicts
// surface as *domain.ConflictError with the conflicting count and redacted
// ranges, never as success.
func (s *BookingService) Create(ctx context.Context, p CreateParams) (domain.Booking, domain.Quote, error) {
	if err := p.validate(); err != nil {
		return domain.Booking{}, domain.Quote{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}

	sr, err := domain.NewStayRange(p.CheckIn, p.CheckOut)
	if err != nil {
		return domain.Booking{}, domain.Quote{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}

	var (
		booking domain.Booking
		quote   domain.Quote
	)

	backoff := retry.WithMaxRetries(maxCreateRetries, retry.NewFibonacci(50*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.createOnce(ctx, p, sr, &booking, &quote)
		if errors.Is(err, domain.ErrTxAborted) {
			metrics.TxRetriesTotal.Inc()
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		var ce *domain.ConflictError
		if errors.As(err, &ce) {
			if len(ce.Conflicts) == 0 {
				// The exclusion constraint fired: a racing writer committed
				// first and our transaction was rolled back before reading
				// details. Fetch them fresh for the caller's payload.
				metrics.ConflictsTotal.WithLabelValues("constraint").Inc()
				if details, derr := s.conflictDetails(ctx, p.UnitID, sr); derr == nil {
					ce.Conflicts = details
				} else {
					// The conflict itself still surfaces; only the payload
					// detail is degraded.
					slog.WarnContext(ctx, "conflict detail re-read failed",
						"unit_id", p.UnitID, "error", derr)
				}
			} else {
				metrics.ConflictsTotal.WithLabelValues("recheck").Inc()
			}
			return domain.Booking{}, domain.Quote{}, fmt.Errorf("service.BookingService.Create: %w", ce)
		}
		return domain.Booking{}, domain.Quote{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}

	metrics.BookingsCreatedTotal.WithLabelValues(string(booking.Status)).Inc()
	return booking, quote, nil
}

// createOnce is one attempt of the creation transaction.
func (s *BookingService) createOnce(ctx context.Context, p CreateParams, sr domain.StayRange, outBooking *domain.Booking, outQuote *domain.Quote) error {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	return s.store.InTx(ctx, func(ctx context.Context, r repo.Repos) error {
		unit, err := r.Units.GetByID(ctx, p.UnitID)
		if err != nil {
			return err
		}
		if !unit.Bookable() {
			return fmt.Errorf("%w: unit %q is not open for booking", domain.ErrValidation, unit.Name)
		}

		if guests := p.Adults + p.Children; guests > unit.MaxGuests {
			return fmt.Errorf("%w: %d guests exceed unit capacity of %d", domain.ErrValidation, guests, unit.MaxGuests)
		}

		// Atomic insert-or-fetch: racing requests with the same new email
		// converge on one identity row. Non-guest identities are rejected,
		// never silently reused.
		cust, err := r.Customers.Upsert(ctx, strings.TrimSpace(p.GuestName), p.GuestEmail)
		if err != nil {
			return err
		}
		if cust.Role != domain.RoleGuest {
			return fmt.Errorf("%w: %s", domain.ErrRoleConflict, cust.Email)
		}

		// The transactional re-check. FOR UPDATE locks the conflicting rows,
		// so a competing transition (e.g. a cancel racing this create) must
		// serialize with us; a competing insert is caught by the exclusion
		// constraint at our own insert below.
		overlapping, err := r.Bookings.ListOverlapping(ctx, p.UnitID, sr, holdStatuses, true)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			ce := &domain.ConflictError{UnitID: p.UnitID}
			for _, b := range overlapping {
				ce.Conflicts = append(ce.Conflicts, redactBooking(b))
			}
			return ce
		}

		quote, err := domain.ComputeQuote(sr, unit.NightlyRateCents, p.AddOns)
		if err != nil {
			return err
		}

		created, err := r.Bookings.Insert(ctx, domain.Booking{
			UnitID:     unit.ID,
			CustomerID: cust.ID,
			// The name from THIS request, not the identity record's stored
			// name: one email may book for differently named occupants.
			GuestName:  strings.TrimSpace(p.GuestName),
			CheckIn:    sr.CheckIn,
			CheckOut:   sr.CheckOut,
			Adults:     p.Adults,
			Children:   p.Children,
			TotalCents: quote.TotalCents,
			Status:     p.initialStatus(),
			AgentID:    p.AgentID,
		})
		if err != nil {
			return err
		}

		*outBooking = created
		*outQuote = quote
		return nil
	})
}

// conflictDetails re-reads the conflicting bookings outside any transaction
// to populate a constraint-triggered ConflictError.
func (s *BookingService) conflictDetails(ctx context.Context, unitID uuid.UUID, sr domain.StayRange) ([]domain.ConflictRange, error) {
	overlapping, err := s.reads.Bookings.ListOverlapping(ctx, unitID, sr, holdStatuses, false)
	if err != nil {
		return nil, err
	}
	details := make([]domain.ConflictRange, 0, len(overlapping))
	for _, b := range overlapping {
		details = append(details, redactBooking(b))
	}
	return details, nil
}

// Transition applies a status change through the domain state machine inside
// a transaction, locking the booking row so concurrent transitions of the
// same booking serialize. Status is never written outside this path.
func (s *BookingService) Transition(ctx context.Context, id uuid.UUID, target domain.BookingStatus) (domain.Booking, error) {
	if !target.Valid() {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Transition: %w: unknown status %q", domain.ErrValidation, string(target))
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var updated domain.Booking
	err := s.store.InTx(ctx, func(ctx context.Context, r repo.Repos) error {
		b, err := r.Bookings.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := b.Transition(target, time.Now()); err != nil {
			return err
		}

		updated, err = r.Bookings.UpdateStatus(ctx, id, b.Status)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			metrics.TransitionsTotal.WithLabelValues(string(target), "rejected").Inc()
		}
		return domain.Booking{}, fmt.Errorf("service.BookingService.Transition: %w", err)
	}

	metrics.TransitionsTotal.WithLabelValues(string(target), "applied").Inc()
	return updated, nil
}

// GetByID returns a single booking by ID.
func (s *BookingService) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	b, err := s.reads.Bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.GetByID: %w", err)
	}
	return b, nil
}

// ListByUnit returns one page of a unit's bookings plus the total count.
// Returns domain.ErrNotFound if the unit does not exist.
func (s *BookingService) ListByUnit(ctx context.Context, unitID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	if _, err := s.reads.Units.GetByID(ctx, unitID); err != nil {
		return nil, 0, fmt.Errorf("service.BookingService.ListByUnit: %w", err)
	}
	bookings, total, err := s.reads.Bookings.ListByUnitPaged(ctx, unitID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.BookingService.ListByUnit: %w", err)
	}
	return bookings, total, nil
}
