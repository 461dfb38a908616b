package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/campstead/booking-api/internal/domain"
	"github.com/campstead/booking-api/internal/repo"
	"github.com/campstead/booking-api/testutil"
)

// newTestRepos opens a single transaction and returns a Repos bundle backed by
// it, plus the raw tx for seeding rows the repos don't write (units). The
// transaction is rolled back when the test finishes, so tests never leave
// state behind and never see each other's rows.
func newTestRepos(t *testing.T) (repo.Repos, pgx.Tx) {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewRepos(tx), tx
}

// seedUnit inserts a unit row directly — the booking core never writes units,
// so there is no repo method for this.
func seedUnit(t *testing.T, tx pgx.Tx, status domain.UnitStatus) domain.Unit {
	t.Helper()

	const q = `
		INSERT INTO units (name, nightly_rate_cents, max_guests, status)
		VALUES (@name, @rate, @max_guests, @status)
		RETURNING id, name, nightly_rate_cents, max_guests, status, created_at, updated_at`

	args := pgx.NamedArgs{
		"name":       "Test Cabin " + uuid.NewString()[:8],
		"rate":       15000,
		"max_guests": 4,
		"status":     string(status),
	}

	var u domain.Unit
	var st string
	err := tx.QueryRow(context.Background(), q, args).Scan(
		&u.ID, &u.Name, &u.NightlyRateCents, &u.MaxGuests, &st, &u.CreatedAt, &u.UpdatedAt)
	require.NoError(t, err, "seed unit")
	u.Status = domain.UnitStatus(st)
	return u
}

// seedCustomerWithRole inserts an identity row with an explicit role, which
// CustomerRepo.Upsert deliberately cannot do.
func seedCustomerWithRole(t *testing.T, tx pgx.Tx, email string, role domain.CustomerRole) uuid.UUID {
	t.Helper()

	const q = `
		INSERT INTO customers (full_name, email, role)
		VALUES ('Seeded Identity', @email, @role)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(context.Background(), q, pgx.NamedArgs{
		"email": email,
		"role":  string(role),
	}).Scan(&id)
	require.NoError(t, err, "seed customer")
	return id
}

// bookingFixture returns an insertable booking for the given unit and guest,
// spanning [2026-03-01, 2026-03-04).
func bookingFixture(unitID, customerID uuid.UUID) domain.Booking {
	return domain.Booking{
		UnitID:     unitID,
		CustomerID: customerID,
		GuestName:  "Jane Doe",
		CheckIn:    date(2026, 3, 1),
		CheckOut:   date(2026, 3, 4),
		Adults:     2,
		Children:   0,
		TotalCents: 45000,
		Status:     domain.StatusPending,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// mustInsertBooking inserts via the repo and fails the test on any error.
func mustInsertBooking(t *testing.T, r repo.Repos, b domain.Booking) domain.Booking {
	t.Helper()
	created, err := r.Bookings.Insert(context.Background(), b)
	require.NoError(t, err, "insert booking")
	return created
}
