package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/reservations-api/internal/domain"
)

// Envelope is the generic response wrapper.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// VerifyEnvelope wraps code-verification responses.
type VerifyEnvelope struct {
	Success  bool   `json:"success"`
	Verified bool   `json:"verified"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ReservationEnvelope wraps single-reservation responses.
type ReservationEnvelope struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message,omitempty"`
	Reservation *domain.Reservation `json:"reservation,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// ReservationsEnvelope wraps reservation list responses.
type ReservationsEnvelope struct {
	Success      bool                 `json:"success"`
	Reservations []domain.Reservation `json:"reservations"`
	Error        string               `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Error: msg})
}

// httpError maps domain sentinel errors to HTTP status codes. Unexpected
// errors are logged and surfaced as a generic 500 with detail withheld.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrCodeNotFound),
		errors.Is(err, domain.ErrCodeMismatch),
		errors.Is(err, domain.ErrOutsideHours),
		errors.Is(err, domain.ErrDuplicateBooking):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrUnverified):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		slog.Error("unhandled error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error, please try again")
	}
}
