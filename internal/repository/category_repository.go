package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"blogCMS/internal/models"

	"github.com/jmoiron/sqlx"
)

const categoryColumns = `id, name, slug, description, created_at, updated_at`

type CategoryRepositoryImpl struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepositoryImpl {
	return &CategoryRepositoryImpl{db: db}
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, slug, description)
		VALUES (:name, :slug, :description)
		RETURNING ` + categoryColumns

	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, category)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", classifyError(err))
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to create category: %w", classifyError(err))
		}
		return errors.New("failed to create category: no row returned")
	}

	if err := rows.StructScan(category); err != nil {
		return fmt.Errorf("failed to read created category: %w", err)
	}

	return nil
}

// Update changes only the supplied columns and returns the stored row, or
// nil when no category has that id.
func (r *CategoryRepositoryImpl) Update(ctx context.Context, id int64, patch CategoryPatch) (*models.Category, error) {
	var (
		sets []string
		args []interface{}
	)

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Slug != nil {
		add("slug", *patch.Slug)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE categories SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), categoryColumns,
	)

	var category models.Category
	err := r.db.GetContext(ctx, &category, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update category %d: %w", id, classifyError(err))
	}

	return &category, nil
}

func (r *CategoryRepositoryImpl) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM categories WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, classifyError(err))
	}

	return nil
}

func (r *CategoryRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	var category models.Category
	err := r.db.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}

	return &category, nil
}

func (r *CategoryRepositoryImpl) List(ctx context.Context) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY created_at DESC, id DESC`

	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}
