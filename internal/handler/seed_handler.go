package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// Seed fills an empty database with demo content. It is safe to call again;
// a database that already has posts is left untouched.
func (h *Handlers) Seed(w http.ResponseWriter, r *http.Request) {
	result, err := h.services.Seed.Seed(r.Context())
	if err != nil {
		h.logger.Error("seed failed", zap.Error(err))
		writeError(w, "Failed to seed database", http.StatusInternalServerError)
		return
	}

	writeSuccess(w, result, http.StatusOK)
}
