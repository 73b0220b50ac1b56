package handlers

import (
	"blogCMS/internal/config"
	"blogCMS/internal/metrics"
	"blogCMS/internal/middleware"
	"blogCMS/internal/service"

	"go.uber.org/zap"
)

type Handlers struct {
	services   *service.Service
	cfg        *config.Config
	logger     *zap.Logger
	metrics    *metrics.Metrics
	mw         *middleware.Middlewares
	procedures map[string]procedure
}

func NewHandlers(services *service.Service, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics, mw *middleware.Middlewares) *Handlers {
	h := &Handlers{
		services: services,
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
		mw:       mw,
	}
	h.registerProcedures()
	return h
}
