package handlers

import (
	"net/http"

	"blogCMS/internal/middleware"

	"github.com/gorilla/mux"
)

// Routes builds the router with the full middleware chain around it.
func (h *Handlers) Routes(metricsHandler http.Handler) http.Handler {
	r := mux.NewRouter()
	r.Use(h.mw.RequestLogger)
	r.Use(h.mw.Recoverer)

	r.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.Readyz).Methods(http.MethodGet)
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/trpc/{procedure}", h.TRPC)
	api.HandleFunc("/rpc", h.HandleJSONRPC).Methods(http.MethodPost)
	api.Handle("/seed", h.mw.RequireAuthor(http.HandlerFunc(h.Seed))).Methods(http.MethodGet, http.MethodPost)

	uploads := api.PathPrefix("/uploads/featured-image").Subrouter()
	uploads.Use(h.mw.RequireAuthor)
	uploads.HandleFunc("", h.UploadFeaturedImage).Methods(http.MethodPost)
	uploads.HandleFunc("/{objectName:.+}", h.DeleteFeaturedImage).Methods(http.MethodDelete)

	return middleware.Chain(r,
		h.mw.Authenticate,
		h.mw.RateLimit(h.cfg.RateLimitRPM),
		h.mw.CORS(h.cfg.CORSAllowedOrigins),
		h.mw.RequestID,
	)
}
