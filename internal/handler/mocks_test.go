package handler_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/campstead/booking-api/internal/domain"
	"github.com/campstead/booking-api/internal/handler"
	"github.com/campstead/booking-api/internal/service"
)

// Function-field mocks for the servicer interfaces. Unset methods panic when
// called, which fails the test loudly.

type mockBookingService struct {
	create     func(ctx context.Context, p service.CreateParams) (domain.Booking, domain.Quote, error)
	transition func(ctx context.Context, id uuid.UUID, target domain.BookingStatus) (domain.Booking, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	listByUnit func(ctx context.Context, unitID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error)
}

func (m *mockBookingService) Create(ctx context.Context, p service.CreateParams) (domain.Booking, domain.Quote, error) {
	return m.create(ctx, p)
}
func (m *mockBookingService) Transition(ctx context.Context, id uuid.UUID, target domain.BookingStatus) (domain.Booking, error) {
	return m.transition(ctx, id, target)
}
func (m *mockBookingService) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookingService) ListByUnit(ctx context.Context, unitID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	return m.listByUnit(ctx, unitID, p)
}

type mockAvailabilityService struct {
	check func(ctx context.Context, unitIDs []uuid.UUID, checkIn, checkOut time.Time) ([]domain.UnitAvailability, error)
}

func (m *mockAvailabilityService) Check(ctx context.Context, unitIDs []uuid.UUID, checkIn, checkOut time.Time) ([]domain.UnitAvailability, error) {
	return m.check(ctx, unitIDs, checkIn, checkOut)
}

type mockUnitService struct {
	list    func(ctx context.Context) ([]domain.Unit, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Unit, error)
}

func (m *mockUnitService) List(ctx context.Context) ([]domain.Unit, error) {
	return m.list(ctx)
}
func (m *mockUnitService) GetByID(ctx context.Context, id uuid.UUID) (domain.Unit, error) {
	return m.getByID(ctx, id)
}

var (
	_ handler.BookingServicer      = (*mockBookingService)(nil)
	_ handler.AvailabilityServicer = (*mockAvailabilityService)(nil)
	_ handler.UnitServicer         = (*mockUnitService)(nil)
)

func sampleBooking() domain.Booking {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	return domain.Booking{
		ID:         uuid.New(),
		UnitID:     uuid.New(),
		CustomerID: uuid.New(),
		GuestName:  "Jane Doe",
		CheckIn:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		Adults:     2,
		Children:   0,
		TotalCents: 45000,
		Status:     domain.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
