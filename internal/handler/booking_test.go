package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campstead/booking-api/internal/domain"
	"github.com/campstead/booking-api/internal/handler"
	"github.com/campstead/booking-api/internal/service"
)

func createBody(unitID uuid.UUID) string {
	return fmt.Sprintf(`{
		"unit_id": %q,
		"check_in": "2026-03-01",
		"check_out": "2026-03-04",
		"adults": 2,
		"guest_name": "Jane Doe",
		"guest_email": "jane@example.com"
	}`, unitID)
}

func doRequest(t *testing.T, srv *handler.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestCreateBooking_Created(t *testing.T) {
	booking := sampleBooking()
	var got service.CreateParams
	bookings := &mockBookingService{
		create: func(_ context.Context, p service.CreateParams) (domain.Booking, domain.Quote, error) {
			got = p
			return booking, domain.Quote{Nights: 3, BaseCents: 45000, TotalCents: 45000}, nil
		},
	}
	srv := handler.NewServer(bookings, nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/bookings", createBody(booking.UnitID))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, booking.UnitID, got.UnitID)
	assert.Equal(t, "2026-03-01", got.CheckIn.Format("2006-01-02"))
	assert.Equal(t, "jane@example.com", got.GuestEmail)

	var resp struct {
		Booking struct {
			ID     uuid.UUID `json:"id"`
			Status string    `json:"status"`
		} `json:"booking"`
		Quote struct {
			Nights     int   `json:"nights"`
			TotalCents int64 `json:"total_cents"`
		} `json:"quote"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, booking.ID, resp.Booking.ID)
	assert.Equal(t, "PENDING", resp.Booking.Status)
	assert.Equal(t, 3, resp.Quote.Nights)
	assert.Equal(t, int64(45000), resp.Quote.TotalCents)
}

func TestCreateBooking_MissingFields(t *testing.T) {
	srv := handler.NewServer(&mockBookingService{}, nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/bookings", `{"adults": 2}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "validation_error", detail.Code)
	assert.Contains(t, detail.Message, "required")
}

func TestCreateBooking_BadJSON(t *testing.T) {
	srv := handler.NewServer(&mockBookingService{}, nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/bookings", `{not json`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Code)
}

func TestCreateBooking_Conflict(t *testing.T) {
	unitID := uuid.New()
	conflictID := uuid.New()
	bookings := &mockBookingService{
		create: func(_ context.Context, _ service.CreateParams) (domain.Booking, domain.Quote, error) {
			return domain.Booking{}, domain.Quote{}, fmt.Errorf("service.BookingService.Create: %w", &domain.ConflictError{
				UnitID: unitID,
				Conflicts: []domain.ConflictRange{{
					BookingID: conflictID,
					CheckIn:   "2026-03-02",
					CheckOut:  "2026-03-05",
					Status:    domain.StatusConfirmed,
				}},
			})
		},
	}
	srv := handler.NewServer(bookings, nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/bookings", createBody(unitID))

	require.Equal(t, http.StatusConflict, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "booking_conflict", detail.Code)
	require.NotNil(t, detail.ConflictingCount)
	assert.Equal(t, 1, *detail.ConflictingCount)
	require.Len(t, detail.Conflicts, 1)
	assert.Equal(t, conflictID, detail.Conflicts[0].BookingID)
	assert.Equal(t, "2026-03-02", detail.Conflicts[0].CheckIn)
}

func TestCreateBooking_ConflictWithoutDetails(t *testing.T) {
	// A racing writer won and the detail re-read came back empty; the count
	// must still report at least one conflicting booking.
	bookings := &mockBookingService{
		create: func(_ context.Context, _ service.CreateParams) (domain.Booking, domain.Quote, error) {
			return domain.Booking{}, domain.Quote{}, &domain.ConflictError{UnitID: uuid.New()}
		},
	}
	srv := handler.NewServer(bookings, nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/bookings", createBody(uuid.New()))

	require.Equal(t, http.StatusConflict, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "booking_conflict", detail.Code)
	require.NotNil(t, detail.ConflictingCount)
	assert.Equal(t, 1, *detail.ConflictingCount)
	assert.Empty(t, detail.Conflicts)
}

func TestCreateBooking_UnitNotFound(t *testing.T) {
	bookings := &mockBookingService{
		create: func(_ context.Context, _ service.CreateParams) (domain.Booking, domain.Quote, error) {
			return domain.Booking{}, domain.Quote{}, fmt.Errorf("service.BookingService.Create: %w", domain.ErrNotFound)
		},
	}
	srv := handler.NewServer(bookings, nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/bookings", createBody(uuid.New()))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)
}

func TestCreateBooking_RoleConflict(t *testing.T) {
	bookings := &mockBookingService{
		create: func(_ context.Context, _ service.CreateParams) (domain.Booking, domain.Quote, error) {
			return domain.Booking{}, domain.Quote{}, fmt.Errorf("service.BookingService.Create: %w", domain.ErrRoleConflict)
		},
	}
	srv := handler.NewServer(bookings, nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/bookings", createBody(uuid.New()))

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "identity_role_conflict", decodeError(t, rec).Code)
}

func TestCreateBooking_TxAborted(t *testing.T) {
	bookings := &mockBookingService{
		create: func(_ context.Context, _ service.CreateParams) (domain.Booking, domain.Quote, error) {
			return domain.Booking{}, domain.Quote{}, fmt.Errorf("service.BookingService.Create: %w", domain.ErrTxAborted)
		},
	}
	srv := handler.NewServer(bookings, nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/bookings", createBody(uuid.New()))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "transaction_aborted", decodeError(t, rec).Code)
}

func TestGetBooking_OK(t *testing.T) {
	booking := sampleBooking()
	bookings := &mockBookingService{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Booking, error) {
			require.Equal(t, booking.ID, id)
			return booking, nil
		},
	}
	srv := handler.NewServer(bookings, nil, nil)

	rec := doRequest(t, srv, http.MethodGet, "/bookings/"+booking.ID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		ID       uuid.UUID `json:"id"`
		CheckIn  string    `json:"check_in"`
		CheckOut string    `json:"check_out"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, booking.ID, resp.ID)
	assert.Equal(t, "2026-03-01", resp.CheckIn)
	assert.Equal(t, "2026-03-04", resp.CheckOut)
}

func TestGetBooking_BadID(t *testing.T) {
	srv := handler.NewServer(&mockBookingService{}, nil, nil)

	rec := doRequest(t, srv, http.MethodGet, "/bookings/not-a-uuid", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBooking_NotFound(t *testing.T) {
	bookings := &mockBookingService{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Booking, error) {
			return domain.Booking{}, fmt.Errorf("service.BookingService.GetByID: %w", domain.ErrNotFound)
		},
	}
	srv := handler.NewServer(bookings, nil, nil)

	rec := doRequest(t, srv, http.MethodGet, "/bookings/"+uuid.NewString(), "")

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransitionBooking_Applied(t *testing.T) {
	booking := sampleBooking()
	booking.Status = domain.StatusConfirmed
	bookings := &mockBookingService{
		transition: func(_ context.Context, id uuid.UUID, target domain.BookingStatus) (domain.Booking, error) {
			require.Equal(t, booking.ID, id)
			require.Equal(t, domain.StatusConfirmed, target)
			return booking, nil
		},
	}
	srv := handler.NewServer(bookings, nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/bookings/"+booking.ID.String()+"/transition", `{"status": "CONFIRMED"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CONFIRMED", resp.Status)
}

func TestTransitionBooking_Rejected(t *testing.T) {
	bookings := &mockBookingService{
		transition: func(_ context.Context, _ uuid.UUID, _ domain.BookingStatus) (domain.Booking, error) {
			return domain.Booking{}, fmt.Errorf("service.BookingService.Transition: %w", &domain.InvalidTransitionError{
				From: domain.StatusCancelled,
				To:   domain.StatusConfirmed,
			})
		},
	}
	srv := handler.NewServer(bookings, nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/bookings/"+uuid.NewString()+"/transition", `{"status": "CONFIRMED"}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "invalid_transition", detail.Code)
	assert.Equal(t, "CANCELLED", detail.CurrentStatus)
	assert.Equal(t, "CONFIRMED", detail.TargetStatus)
}

func TestTransitionBooking_MissingStatus(t *testing.T) {
	srv := handler.NewServer(&mockBookingService{}, nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/bookings/"+uuid.NewString()+"/transition", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Code)
}
