package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/campstead/booking-api/internal/domain"
)

// BookingRepo defines the persistence operations for bookings.
// Bookings are never deleted — cancellation is a status change.
type BookingRepo interface {
	// Insert persists a new booking and returns the full record. If a racing
	// writer committed an overlapping non-cancelled booking first, the
	// bookings exclusion constraint fires and Insert returns a
	// *domain.ConflictError (without details — the caller re-reads them).
	Insert(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// GetByID retrieves a single booking by its UUID primary key.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// GetByIDForUpdate is GetByID with a FOR UPDATE row lock. Call it inside
	// a transaction before a status transition so concurrent transitions of
	// the same booking serialize.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// ListOverlapping returns the unit's bookings in the given statuses whose
	// half-open [check_in, check_out) interval intersects r, ordered by
	// check_in. With lock=true the matched rows are locked FOR UPDATE — this
	// is the transactional re-check read, and it contends only on truly
	// overlapping rows, never on the unit as a whole.
	ListOverlapping(ctx context.Context, unitID uuid.UUID, r domain.StayRange, statuses []domain.BookingStatus, lock bool) ([]domain.Booking, error)

	// ListActiveByUnit returns all PENDING and CONFIRMED bookings for a unit,
	// ordered by check_in. Used by the advisory availability query; takes no
	// locks.
	ListActiveByUnit(ctx context.Context, unitID uuid.UUID) ([]domain.Booking, error)

	// ListByUnitPaged returns one page of the unit's bookings ordered by
	// check_in descending, plus the total count.
	ListByUnitPaged(ctx context.Context, unitID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error)

	// UpdateStatus writes a new status for the booking and returns the
	// updated record. Returns domain.ErrNotFound if the booking is missing.
	// Callers must have validated the transition through the domain state
	// machine first; this method is the only status write path.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error)
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `id, unit_id, customer_id, guest_name, check_in, check_out,
	adults, children, total_cents, status, agent_id, created_at, updated_at`

func (r *pgBookingRepo) Insert(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	q := `
		INSERT INTO bookings (unit_id, customer_id, guest_name, check_in, check_out,
			adults, children, total_cents, status, agent_id)
		VALUES (@unit_id, @customer_id, @guest_name, @check_in, @check_out,
			@adults, @children, @total_cents, @status, @agent_id)
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"unit_id":     b.UnitID,
		"customer_id": b.CustomerID,
		"guest_name":  b.GuestName,
		"check_in":    b.CheckIn,
		"check_out":   b.CheckOut,
		"adults":      b.Adults,
		"children":    b.Children,
		"total_cents": b.TotalCents,
		"status":      string(b.Status),
		"agent_id":    b.AgentID, // nil becomes NULL
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanBooking(row)
	if err != nil {
		if isPgCode(err, pgExclusionViolation) {
			// Another transaction committed an overlapping booking between our
			// re-check and this insert. Same outcome as a re-check hit.
			return domain.Booking{}, &domain.ConflictError{UnitID: b.UnitID}
		}
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Insert: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return r.getByID(ctx, id, false, "repo.BookingRepo.GetByID")
}

func (r *pgBookingRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return r.getByID(ctx, id, true, "repo.BookingRepo.GetByIDForUpdate")
}

func (r *pgBookingRepo) getByID(ctx context.Context, id uuid.UUID, lock bool, op string) (domain.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = @id`
	if lock {
		q += ` FOR UPDATE`
	}

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanBooking(row)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListOverlapping applies the same half-open interval rule as
// domain.StayRange.Overlaps in SQL: a1 < b2 AND b1 < a2. Shared boundary
// days (check_out = other check_in) therefore do not match.
func (r *pgBookingRepo) ListOverlapping(ctx context.Context, unitID uuid.UUID, sr domain.StayRange, statuses []domain.BookingStatus, lock bool) ([]domain.Booking, error) {
	q := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE unit_id = @unit_id
		  AND status = ANY(@statuses)
		  AND check_in < @check_out
		  AND check_out > @check_in
		ORDER BY check_in`
	if lock {
		q += ` FOR UPDATE`
	}

	args := pgx.NamedArgs{
		"unit_id":   unitID,
		"check_in":  sr.CheckIn,
		"check_out": sr.CheckOut,
		"statuses":  statusStrings(statuses),
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListOverlapping: %w", translateErr(err))
	}
	defer rows.Close()

	return collectBookings(rows, "repo.BookingRepo.ListOverlapping")
}

func (r *pgBookingRepo) ListActiveByUnit(ctx context.Context, unitID uuid.UUID) ([]domain.Booking, error) {
	q := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE unit_id = @unit_id
		  AND status = ANY(@statuses)
		ORDER BY check_in`

	args := pgx.NamedArgs{
		"unit_id":  unitID,
		"statuses": statusStrings([]domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed}),
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListActiveByUnit: %w", translateErr(err))
	}
	defer rows.Close()

	return collectBookings(rows, "repo.BookingRepo.ListActiveByUnit")
}

func (r *pgBookingRepo) ListByUnitPaged(ctx context.Context, unitID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	const countQ = `SELECT count(*) FROM bookings WHERE unit_id = @unit_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"unit_id": unitID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListByUnitPaged: count: %w", translateErr(err))
	}

	q := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE unit_id = @unit_id
		ORDER BY check_in DESC
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{
		"unit_id": unitID,
		"limit":   p.Limit,
		"offset":  p.Offset(),
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListByUnitPaged: %w", translateErr(err))
	}
	defer rows.Close()

	bookings, err := collectBookings(rows, "repo.BookingRepo.ListByUnitPaged")
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *pgBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	q := `
		UPDATE bookings
		SET status = @status,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + bookingColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)})
	result, err := scanBooking(row)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateStatus: %w", err)
	}
	return result, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func collectBookings(rows pgx.Rows, op string) ([]domain.Booking, error) {
	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, translateErr(err))
	}
	return bookings, nil
}

// scanBooking maps a single database row into a domain.Booking.
// It handles the UUID, date, and nullable agent_id conversions.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b        domain.Booking
		id       pgtype.UUID
		unitID   pgtype.UUID
		custID   pgtype.UUID
		checkIn  pgtype.Date
		checkOut pgtype.Date
		status   string
		agentID  pgtype.UUID
	)

	err := s.Scan(&id, &unitID, &custID, &b.GuestName, &checkIn, &checkOut,
		&b.Adults, &b.Children, &b.TotalCents, &status, &agentID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, translateErr(err)
	}

	b.ID = uuid.UUID(id.Bytes)
	b.UnitID = uuid.UUID(unitID.Bytes)
	b.CustomerID = uuid.UUID(custID.Bytes)
	b.CheckIn = checkIn.Time.UTC()
	b.CheckOut = checkOut.Time.UTC()
	b.Status = domain.BookingStatus(status)
	if agentID.Valid {
		a := uuid.UUID(agentID.Bytes)
		b.AgentID = &a
	}
	return b, nil
}
