package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

type HealthResponse struct {
	Status string `json:"status"`
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, HealthResponse{Status: "ok"}, http.StatusOK)
}

// Readyz answers 503 until the database is reachable and migrated.
func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	readiness, err := h.services.Tables.Ready(r.Context())
	if err != nil {
		h.logger.Warn("not ready", zap.Error(err))
		writeSuccess(w, readiness, http.StatusServiceUnavailable)
		return
	}

	writeSuccess(w, readiness, http.StatusOK)
}
