package app

import (
	"context"
	"fmt"
	"net/http"

	"blogCMS/internal/config"
	"blogCMS/internal/database"
	handlers "blogCMS/internal/handler"
	"blogCMS/internal/logger"
	"blogCMS/internal/metrics"
	"blogCMS/internal/middleware"
	"blogCMS/internal/repository"
	"blogCMS/internal/service"
	"blogCMS/internal/storage"

	"go.uber.org/zap"
)

// App holds the process-wide dependencies created once at start and shared
// by every request.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	Handlers *handlers.Handlers
	Metrics  *metrics.Metrics

	metricsHandler http.Handler
}

// New connects to PostgreSQL, and to MinIO when it is enabled, then wires
// repositories, services and handlers over them.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := database.ConnectDB(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	var store storage.Storage
	if cfg.MinIO.Enabled {
		client, err := storage.NewMinIOClient(ctx, cfg)
		if err != nil {
			db.CloseDB()
			log.Sync()
			return nil, fmt.Errorf("failed to init MinIO: %w", err)
		}
		store = client
		log.Info("object storage enabled", zap.String("bucket", cfg.MinIO.BucketName))
	} else {
		log.Info("object storage disabled, image uploads will answer 503")
	}

	if !cfg.AuthEnabled() {
		log.Warn("JWT_SECRET_KEY is empty, mutations are not guarded")
	}

	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, store, db)

	m, metricsHandler := metrics.Setup("blog")
	mw := middleware.NewMiddlewares(log, m, services.Auth)

	return &App{
		Config:         cfg,
		Logger:         log,
		DB:             db,
		Repo:           repo,
		Services:       services,
		Handlers:       handlers.NewHandlers(services, cfg, log, m, mw),
		Metrics:        m,
		metricsHandler: metricsHandler,
	}, nil
}

// Router returns the fully wrapped HTTP handler.
func (a *App) Router() http.Handler {
	return a.Handlers.Routes(a.metricsHandler)
}

func (a *App) Close() {
	if err := a.DB.CloseDB(); err != nil {
		a.Logger.Error("failed to close database", zap.Error(err))
	}
	a.Logger.Sync()
}
