package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/reservations-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReservationService struct{ mock.Mock }

func (m *mockReservationService) Create(ctx context.Context, req domain.CreateReservationRequest) (*domain.Reservation, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*domain.Reservation); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockReservationService) ListByPhone(ctx context.Context, phoneNumber string) ([]domain.Reservation, error) {
	args := m.Called(ctx, phoneNumber)
	if rs, _ := args.Get(0).([]domain.Reservation); rs != nil {
		return rs, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockReservationService) Cancel(ctx context.Context, reservationID, phoneNumber string) error {
	return m.Called(ctx, reservationID, phoneNumber).Error(0)
}

// withURLParams injects chi route parameters without spinning up a router.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func validCreateBody() string {
	return `{"phone":"+15551234567","name":"Alice Smith","party_size":4,"reservation_time":"2025-03-06T18:00:00Z"}`
}

func TestCreateReservation_InvalidBody(t *testing.T) {
	svc := &mockReservationService{}
	h := NewReservationHandler(svc)

	rr := postJSON(t, h.Create, "not json")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReservation_ValidationFailure(t *testing.T) {
	svc := &mockReservationService{}
	h := NewReservationHandler(svc)

	// party_size above the allowed maximum
	rr := postJSON(t, h.Create, `{"phone":"+15551234567","name":"Alice","party_size":50,"reservation_time":"2025-03-06T18:00:00Z"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReservation_Unverified(t *testing.T) {
	svc := &mockReservationService{}
	svc.On("Create", mock.Anything, mock.Anything).Return(nil, domain.ErrUnverified)
	h := NewReservationHandler(svc)

	rr := postJSON(t, h.Create, validCreateBody())

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCreateReservation_OutsideHours(t *testing.T) {
	svc := &mockReservationService{}
	svc.On("Create", mock.Anything, mock.Anything).Return(nil, domain.ErrOutsideHours)
	h := NewReservationHandler(svc)

	rr := postJSON(t, h.Create, validCreateBody())

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateReservation_DuplicateDay(t *testing.T) {
	svc := &mockReservationService{}
	svc.On("Create", mock.Anything, mock.Anything).Return(nil, domain.ErrDuplicateBooking)
	h := NewReservationHandler(svc)

	rr := postJSON(t, h.Create, validCreateBody())

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateReservation_Success(t *testing.T) {
	svc := &mockReservationService{}
	created := &domain.Reservation{
		ReservationID:   "01JNXYZABCDEF",
		Name:            "Alice Smith",
		Phone:           "+15551234567",
		PartySize:       4,
		ReservationTime: time.Date(2025, 3, 6, 18, 0, 0, 0, time.UTC),
		Status:          domain.StatusConfirmed,
		Verified:        true,
	}
	svc.On("Create", mock.Anything, mock.MatchedBy(func(req domain.CreateReservationRequest) bool {
		return req.Phone == "+15551234567" && req.PartySize == 4
	})).Return(created, nil)
	h := NewReservationHandler(svc)

	rr := postJSON(t, h.Create, validCreateBody())

	assert.Equal(t, http.StatusCreated, rr.Code)
	var env ReservationEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	assert.True(t, env.Success)
	require.NotNil(t, env.Reservation)
	assert.Equal(t, "01JNXYZABCDEF", env.Reservation.ReservationID)
	assert.Equal(t, domain.StatusConfirmed, env.Reservation.Status)
}

func TestListByPhone_InvalidPhone(t *testing.T) {
	svc := &mockReservationService{}
	h := NewReservationHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/reservations/garbage", nil)
	req = withURLParams(req, map[string]string{"phone": "garbage"})
	rr := httptest.NewRecorder()
	h.ListByPhone(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "ListByPhone", mock.Anything, mock.Anything)
}

func TestListByPhone_Empty(t *testing.T) {
	svc := &mockReservationService{}
	svc.On("ListByPhone", mock.Anything, "+15551234567").Return(nil, nil)
	h := NewReservationHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/reservations/+15551234567", nil)
	req = withURLParams(req, map[string]string{"phone": "+15551234567"})
	rr := httptest.NewRecorder()
	h.ListByPhone(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var env ReservationsEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	assert.True(t, env.Success)
	assert.NotNil(t, env.Reservations)
	assert.Empty(t, env.Reservations)
}

func TestListByPhone_ReturnsReservations(t *testing.T) {
	svc := &mockReservationService{}
	svc.On("ListByPhone", mock.Anything, "+15551234567").Return([]domain.Reservation{
		{ReservationID: "r1", Status: domain.StatusConfirmed},
		{ReservationID: "r2", Status: domain.StatusConfirmed},
	}, nil)
	h := NewReservationHandler(svc)

	// url-encoded plus comes out of the route param already decoded
	req := httptest.NewRequest(http.MethodGet, "/reservations/+15551234567", nil)
	req = withURLParams(req, map[string]string{"phone": "15551234567"})
	rr := httptest.NewRecorder()
	h.ListByPhone(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var env ReservationsEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	assert.Len(t, env.Reservations, 2)
}

func TestCancelReservation_InvalidBody(t *testing.T) {
	svc := &mockReservationService{}
	h := NewReservationHandler(svc)

	req := httptest.NewRequest(http.MethodPatch, "/reservations/r1/cancel", bytes.NewBufferString("{"))
	req = withURLParams(req, map[string]string{"id": "r1"})
	rr := httptest.NewRecorder()
	h.Cancel(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelReservation_NotFound(t *testing.T) {
	svc := &mockReservationService{}
	svc.On("Cancel", mock.Anything, "r1", "+15551234567").Return(domain.ErrNotFound)
	h := NewReservationHandler(svc)

	req := httptest.NewRequest(http.MethodPatch, "/reservations/r1/cancel", bytes.NewBufferString(`{"phone":"+15551234567"}`))
	req = withURLParams(req, map[string]string{"id": "r1"})
	rr := httptest.NewRecorder()
	h.Cancel(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCancelReservation_Success(t *testing.T) {
	svc := &mockReservationService{}
	svc.On("Cancel", mock.Anything, "r1", "+15551234567").Return(nil)
	h := NewReservationHandler(svc)

	req := httptest.NewRequest(http.MethodPatch, "/reservations/r1/cancel", bytes.NewBufferString(`{"phone":"+1 555 123 4567"}`))
	req = withURLParams(req, map[string]string{"id": "r1"})
	rr := httptest.NewRecorder()
	h.Cancel(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.True(t, env.Success)
	svc.AssertExpectations(t)
}
