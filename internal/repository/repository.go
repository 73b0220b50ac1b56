package repository

import (
	"context"
	"errors"
	"time"

	"blogCMS/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id int64, patch CategoryPatch) (*models.Category, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post, categoryIDs []int64) error
	Update(ctx context.Context, id int64, patch PostPatch) (*models.Post, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.PostDetails, error)
	GetBySlug(ctx context.Context, slug string) (*models.PostDetails, error)
	List(ctx context.Context, filter PostFilter) (*models.PostPage, error)
	Count(ctx context.Context) (int, error)
}

type TablesRepository interface {
	CountTablesDB(ctx context.Context) (int, error)
	MissingTables(ctx context.Context) ([]string, error)
}

// CategoryPatch holds the supplied fields of a partial update; nil means
// "leave unchanged".
type CategoryPatch struct {
	Name        *string
	Slug        *string
	Description *string
}

// PostPatch holds the supplied fields of a partial update. CategoryIDs set to
// a non-nil pointer replaces every category link of the post, including with
// an empty list; nil keeps the existing links.
type PostPatch struct {
	Title         *string
	Slug          *string
	Content       *string
	Excerpt       *string
	FeaturedImage *string
	AuthorID      *int64
	Status        *models.PostStatus
	PublishedAt   *time.Time
	CategoryIDs   *[]int64
}

type PostFilter struct {
	Limit      int
	Offset     int
	Status     *models.PostStatus
	CategoryID *int64
}

type Repository struct {
	User     UserRepository
	Category CategoryRepository
	Post     PostRepository
	Tables   TablesRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:     NewUserRepository(db),
		Category: NewCategoryRepository(db),
		Post:     NewPostRepository(db),
		Tables:   NewTablesRepository(db),
	}
}

// classifyError turns integrity and enum errors raised by PostgreSQL into
// models.ErrConstraintViolation, keeping the driver error in the chain.
func classifyError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	if pqErr.Code.Class() == "23" || pqErr.Code == "22P02" {
		return &models.ConstraintError{Constraint: pqErr.Constraint, Err: err}
	}

	return err
}
