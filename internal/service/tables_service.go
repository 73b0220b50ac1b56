package service

import (
	"context"
	"fmt"
	"strings"

	"blogCMS/internal/repository"
)

// Pinger is satisfied by *database.DB.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

type Readiness struct {
	Status        string   `json:"status"`
	CountTables   int      `json:"countTables"`
	MissingTables []string `json:"missingTables,omitempty"`
}

type TablesService interface {
	Ready(ctx context.Context) (*Readiness, error)
}

type tablesService struct {
	tablesRepo repository.TablesRepository
	db         Pinger
}

func NewTablesService(tablesRepo repository.TablesRepository, db Pinger) TablesService {
	return &tablesService{tablesRepo: tablesRepo, db: db}
}

// Ready reports an error when the database is unreachable or any blog table
// is missing; the returned Readiness is filled as far as it could be.
func (t *tablesService) Ready(ctx context.Context) (*Readiness, error) {
	r := &Readiness{Status: "unavailable"}

	if err := t.db.HealthCheck(ctx); err != nil {
		return r, err
	}

	count, err := t.tablesRepo.CountTablesDB(ctx)
	if err != nil {
		return r, err
	}
	r.CountTables = count

	missing, err := t.tablesRepo.MissingTables(ctx)
	if err != nil {
		return r, err
	}
	if len(missing) > 0 {
		r.MissingTables = missing
		return r, fmt.Errorf("missing tables: %s", strings.Join(missing, ", "))
	}

	r.Status = "ok"
	return r, nil
}
