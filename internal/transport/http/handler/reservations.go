package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/reservations-api/internal/application/reservation"
	"github.com/reservations-api/internal/domain"
	"github.com/reservations-api/internal/pkg/phone"
	"github.com/reservations-api/internal/pkg/validate"
)

// ReservationHandler handles reservation CRUD endpoints.
type ReservationHandler struct {
	svc reservation.Service
}

func NewReservationHandler(svc reservation.Service) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	normalized, err := phone.Normalize(req.Phone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid phone number format")
		return
	}
	req.Phone = normalized
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ReservationEnvelope{
		Success:     true,
		Message:     "reservation created",
		Reservation: res,
	})
}

func (h *ReservationHandler) ListByPhone(w http.ResponseWriter, r *http.Request) {
	normalized, err := phone.Normalize(chi.URLParam(r, "phone"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid phone number format")
		return
	}
	reservations, err := h.svc.ListByPhone(r.Context(), normalized)
	if err != nil {
		httpError(w, err)
		return
	}
	if reservations == nil {
		reservations = []domain.Reservation{}
	}
	writeJSON(w, http.StatusOK, ReservationsEnvelope{
		Success:      true,
		Reservations: reservations,
	})
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req domain.CancelReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	normalized, err := phone.Normalize(req.Phone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid phone number format")
		return
	}
	if err := h.svc.Cancel(r.Context(), chi.URLParam(r, "id"), normalized); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "reservation cancelled"})
}
