package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// SchemaTables lists the tables the migrations create, in dependency order.
var SchemaTables = []string{"users", "categories", "posts", "post_categories"}

type tablesRepository struct {
	db *sqlx.DB
}

func NewTablesRepository(db *sqlx.DB) TablesRepository {
	return &tablesRepository{db: db}
}

func (r *tablesRepository) CountTablesDB(ctx context.Context) (int, error) {
	var count int

	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public'
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to count database tables: %w", err)
	}

	return count, nil
}

// MissingTables returns the schema tables not present in the public schema.
func (r *tablesRepository) MissingTables(ctx context.Context) ([]string, error) {
	var present []string

	err := r.db.SelectContext(ctx, &present, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = ANY($1)
	`, pq.Array(SchemaTables))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect database tables: %w", err)
	}

	found := make(map[string]bool, len(present))
	for _, name := range present {
		found[name] = true
	}

	missing := []string{}
	for _, name := range SchemaTables {
		if !found[name] {
			missing = append(missing, name)
		}
	}

	return missing, nil
}
