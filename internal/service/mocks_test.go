package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/campstead/booking-api/internal/domain"
	"github.com/campstead/booking-api/internal/repo"
)

// Hand-written test doubles for the repo interfaces. Each method is a
// function field — set only the ones your test needs; an unset method that
// gets called panics, which fails the test loudly.

type mockUnitRepo struct {
	getByID  func(ctx context.Context, id uuid.UUID) (domain.Unit, error)
	getByIDs func(ctx context.Context, ids []uuid.UUID) ([]domain.Unit, error)
	list     func(ctx context.Context) ([]domain.Unit, error)
}

func (m *mockUnitRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Unit, error) {
	return m.getByID(ctx, id)
}
func (m *mockUnitRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Unit, error) {
	return m.getByIDs(ctx, ids)
}
func (m *mockUnitRepo) List(ctx context.Context) ([]domain.Unit, error) {
	return m.list(ctx)
}

type mockCustomerRepo struct {
	upsert     func(ctx context.Context, fullName, email string) (domain.Customer, error)
	getByEmail func(ctx context.Context, email string) (domain.Customer, error)
}

func (m *mockCustomerRepo) Upsert(ctx context.Context, fullName, email string) (domain.Customer, error) {
	return m.upsert(ctx, fullName, email)
}
func (m *mockCustomerRepo) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	return m.getByEmail(ctx, email)
}

type mockBookingRepo struct {
	insert           func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	getByID          func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	getByIDForUpdate func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	listOverlapping  func(ctx context.Context, unitID uuid.UUID, r domain.StayRange, statuses []domain.BookingStatus, lock bool) ([]domain.Booking, error)
	listActiveByUnit func(ctx context.Context, unitID uuid.UUID) ([]domain.Booking, error)
	listByUnitPaged  func(ctx context.Context, unitID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error)
	updateStatus     func(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error)
}

func (m *mockBookingRepo) Insert(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return m.insert(ctx, b)
}
func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookingRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByIDForUpdate(ctx, id)
}
func (m *mockBookingRepo) ListOverlapping(ctx context.Context, unitID uuid.UUID, r domain.StayRange, statuses []domain.BookingStatus, lock bool) ([]domain.Booking, error) {
	return m.listOverlapping(ctx, unitID, r, statuses, lock)
}
func (m *mockBookingRepo) ListActiveByUnit(ctx context.Context, unitID uuid.UUID) ([]domain.Booking, error) {
	return m.listActiveByUnit(ctx, unitID)
}
func (m *mockBookingRepo) ListByUnitPaged(ctx context.Context, unitID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	return m.listByUnitPaged(ctx, unitID, p)
}
func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	return m.updateStatus(ctx, id, status)
}

// compile-time checks: mocks must satisfy the repo interfaces.
var (
	_ repo.UnitRepo     = (*mockUnitRepo)(nil)
	_ repo.CustomerRepo = (*mockCustomerRepo)(nil)
	_ repo.BookingRepo  = (*mockBookingRepo)(nil)
)

// fakeTxer satisfies repo.Txer by running fn directly against the bundled
// mock repos. "Commit" is implicit: a nil return from fn is a commit, any
// error is a rollback — which matches the real Store's contract closely
// enough for service-level tests.
type fakeTxer struct {
	repos repo.Repos
	// calls counts InTx invocations, letting retry tests assert attempts.
	calls int
}

func (f *fakeTxer) InTx(ctx context.Context, fn func(ctx context.Context, r repo.Repos) error) error {
	f.calls++
	return fn(ctx, f.repos)
}

var _ repo.Txer = (*fakeTxer)(nil)

// ---- fixtures --------------------------------------------------------------

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func activeUnit() domain.Unit {
	return domain.Unit{
		ID:               uuid.New(),
		Name:             "Riverbend Safari Tent",
		NightlyRateCents: 15000,
		MaxGuests:        4,
		Status:           domain.UnitActive,
	}
}

func guestCustomer(email string) domain.Customer {
	return domain.Customer{
		ID:       uuid.New(),
		FullName: "Jane Doe",
		Email:    email,
		Role:     domain.RoleGuest,
	}
}

// unitRepoReturning always resolves to the given unit.
func unitRepoReturning(u domain.Unit) *mockUnitRepo {
	return &mockUnitRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Unit, error) { return u, nil },
	}
}

// customerRepoReturning always resolves to the given identity.
func customerRepoReturning(c domain.Customer) *mockCustomerRepo {
	return &mockCustomerRepo{
		upsert: func(_ context.Context, _, _ string) (domain.Customer, error) { return c, nil },
	}
}

// echoBookingRepo reports no overlaps and echoes inserts back with a fresh ID,
// which is all the happy-path creation tests need.
func echoBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{
		listOverlapping: func(_ context.Context, _ uuid.UUID, _ domain.StayRange, _ []domain.BookingStatus, _ bool) ([]domain.Booking, error) {
			return nil, nil
		},
		insert: func(_ context.Context, b domain.Booking) (domain.Booking, error) {
			b.ID = uuid.New()
			b.CreatedAt = time.Now().UTC()
			b.UpdatedAt = b.CreatedAt
			return b, nil
		},
	}
}
