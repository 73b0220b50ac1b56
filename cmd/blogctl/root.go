package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"blogCMS/internal/config"
	"blogCMS/internal/database"
	"blogCMS/internal/logger"
	"blogCMS/internal/repository"
	"blogCMS/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "blogctl",
	Short: "Administration tool for the blog CMS",
	Long: `blogctl runs maintenance tasks against the blog database.

Connection settings are read from the environment and .env, the same way the
API server reads them.`,
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, tokenCmd)
}

// env is what a command needs to talk to the database. Migrations are never
// applied implicitly here; migrate up does that explicitly.
type env struct {
	cfg      *config.Config
	log      *zap.Logger
	db       database.MethodsDB
	services *service.Service
}

// connect is swapped in tests to run commands without a database.
var connect = openEnv

func openEnv(ctx context.Context) (*env, error) {
	cfg := config.LoadConfig()
	cfg.DB.MigrateOnStart = false
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, err
	}

	db, err := database.ConnectDB(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	repo := repository.NewRepository(db.DB)
	return &env{
		cfg:      cfg,
		log:      log,
		db:       db,
		services: service.NewService(repo, cfg, nil, db),
	}, nil
}

func (e *env) close() {
	e.db.CloseDB()
	e.log.Sync()
}
