package handler

import (
	"net/http"
	"time"
)

// HealthHandler handles the liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "server is running, " + time.Now().UTC().Format(time.RFC3339),
	})
}
