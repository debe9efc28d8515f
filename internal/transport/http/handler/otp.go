package handler

import (
	"encoding/json"
	"net/http"

	"github.com/reservations-api/internal/application/verification"
	"github.com/reservations-api/internal/domain"
	"github.com/reservations-api/internal/pkg/phone"
	"github.com/reservations-api/internal/pkg/validate"
)

// OTPHandler handles the phone verification flow endpoints.
type OTPHandler struct {
	svc verification.Service
}

func NewOTPHandler(svc verification.Service) *OTPHandler {
	return &OTPHandler{svc: svc}
}

func (h *OTPHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req domain.RequestCodeRequest
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
	if err := h.svc.RequestCode(r.Context(), req.Phone); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "verification code sent"})
}

func (h *OTPHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyCodeRequest
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
	if err := h.svc.CheckCode(r.Context(), req.Phone, req.Code); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyEnvelope{
		Success:  true,
		Verified: true,
		Message:  "phone number verified",
	})
}
