package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"blogCMS/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const postColumns = `id, title, slug, content, excerpt, featured_image, author_id, status, published_at, created_at, updated_at`

const postWithAuthorQuery = `
	SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.featured_image, p.author_id,
	       p.status, p.published_at, p.created_at, p.updated_at,
	       u.id AS author_ref_id, u.name AS author_name, u.email AS author_email,
	       u.created_at AS author_created_at, u.updated_at AS author_updated_at
	FROM posts p
	LEFT JOIN users u ON u.id = p.author_id`

const postCategoriesQuery = `
	SELECT pc.post_id, c.id, c.name, c.slug, c.description, c.created_at, c.updated_at
	FROM post_categories pc
	LEFT JOIN categories c ON c.id = pc.category_id
	WHERE pc.post_id = ANY($1)
	ORDER BY pc.id`

// postRow is a post left-joined with its author; author columns are NULL
// when the join finds no user.
type postRow struct {
	models.Post
	AuthorRefID     sql.NullInt64  `db:"author_ref_id"`
	AuthorName      sql.NullString `db:"author_name"`
	AuthorEmail     sql.NullString `db:"author_email"`
	AuthorCreatedAt sql.NullTime   `db:"author_created_at"`
	AuthorUpdatedAt sql.NullTime   `db:"author_updated_at"`
}

func (row postRow) details() models.PostDetails {
	d := models.PostDetails{Post: row.Post, Categories: []models.Category{}}
	if row.AuthorRefID.Valid {
		d.Author = &models.User{
			ID:        row.AuthorRefID.Int64,
			Name:      row.AuthorName.String,
			Email:     row.AuthorEmail.String,
			CreatedAt: row.AuthorCreatedAt.Time,
			UpdatedAt: row.AuthorUpdatedAt.Time,
		}
	}
	return d
}

type postCategoryRow struct {
	PostID      int64          `db:"post_id"`
	ID          sql.NullInt64  `db:"id"`
	Name        sql.NullString `db:"name"`
	Slug        sql.NullString `db:"slug"`
	Description sql.NullString `db:"description"`
	CreatedAt   sql.NullTime   `db:"created_at"`
	UpdatedAt   sql.NullTime   `db:"updated_at"`
}

type PostRepositoryImpl struct {
	DB *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

// Create inserts the post and one link row per category id in a single
// transaction. The ids are neither deduplicated nor checked; a missing
// category fails on the foreign key.
func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post, categoryIDs []int64) (err error) {
	query := `
		INSERT INTO posts
		(title, slug, content, excerpt, featured_image, author_id, status, published_at)
		VALUES
		(:title, :slug, :content, :excerpt, :featured_image, :author_id, :status, :published_at)
		RETURNING ` + postColumns

	if post.Status == "" {
		post.Status = models.StatusDraft
	}
	if post.PublishedAt != nil {
		publishedAt := post.PublishedAt.UTC()
		post.PublishedAt = &publishedAt
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rows, err := sqlx.NamedQueryContext(ctx, tx, query, post)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", classifyError(err))
	}
	if !rows.Next() {
		err = rows.Err()
		rows.Close()
		if err != nil {
			return fmt.Errorf("failed to create post: %w", classifyError(err))
		}
		return errors.New("failed to create post: no row returned")
	}
	err = rows.StructScan(post)
	rows.Close()
	if err != nil {
		return fmt.Errorf("failed to read created post: %w", err)
	}

	if err = insertPostCategories(ctx, tx, post.ID, categoryIDs); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit post: %w", classifyError(err))
	}

	return nil
}

// Update writes only the supplied columns and, when patch.CategoryIDs is set,
// replaces the post's category links. It returns nil when the post does not
// exist.
func (r *PostRepositoryImpl) Update(ctx context.Context, id int64, patch PostPatch) (_ *models.Post, err error) {
	var (
		sets []string
		args []interface{}
	)

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Slug != nil {
		add("slug", *patch.Slug)
	}
	if patch.Content != nil {
		add("content", *patch.Content)
	}
	if patch.Excerpt != nil {
		add("excerpt", *patch.Excerpt)
	}
	if patch.FeaturedImage != nil {
		add("featured_image", *patch.FeaturedImage)
	}
	if patch.AuthorID != nil {
		add("author_id", *patch.AuthorID)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.PublishedAt != nil {
		add("published_at", patch.PublishedAt.UTC())
	}

	// a patch that only relinks categories leaves the row itself untouched
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1 FOR UPDATE`
	if len(sets) > 0 {
		sets = append(sets, "updated_at = NOW()")
		query = fmt.Sprintf(
			`UPDATE posts SET %s WHERE id = $%d RETURNING %s`,
			strings.Join(sets, ", "), len(args)+1, postColumns,
		)
	}
	args = append(args, id)

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var post models.Post
	if err = tx.GetContext(ctx, &post, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = tx.Rollback()
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update post %d: %w", id, classifyError(err))
	}

	if patch.CategoryIDs != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM post_categories WHERE post_id = $1`, id); err != nil {
			return nil, fmt.Errorf("failed to clear categories of post %d: %w", id, err)
		}
		if err = insertPostCategories(ctx, tx, id, *patch.CategoryIDs); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit post %d: %w", id, classifyError(err))
	}

	return &post, nil
}

// Delete removes the post; its category links go with it through ON DELETE
// CASCADE. Deleting a missing id is not an error.
func (r *PostRepositoryImpl) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`

	if _, err := r.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, classifyError(err))
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.PostDetails, error) {
	return r.getOne(ctx, postWithAuthorQuery+` WHERE p.id = $1`, id)
}

func (r *PostRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*models.PostDetails, error) {
	return r.getOne(ctx, postWithAuthorQuery+` WHERE p.slug = $1`, slug)
}

func (r *PostRepositoryImpl) getOne(ctx context.Context, query string, arg interface{}) (*models.PostDetails, error) {
	var row postRow
	err := r.DB.GetContext(ctx, &row, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	details := []models.PostDetails{row.details()}
	if err := r.attachCategories(ctx, details); err != nil {
		return nil, err
	}

	return &details[0], nil
}

// List returns one page of posts, newest first. Total is the size of the
// whole posts table and ignores the status and category filters.
func (r *PostRepositoryImpl) List(ctx context.Context, filter PostFilter) (*models.PostPage, error) {
	var (
		where []string
		args  []interface{}
	)

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = append(where, fmt.Sprintf("p.status = $%d", len(args)))
	}

	if filter.CategoryID != nil {
		var postIDs []int64
		err := r.DB.SelectContext(ctx, &postIDs,
			`SELECT post_id FROM post_categories WHERE category_id = $1`, *filter.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve posts of category %d: %w", *filter.CategoryID, err)
		}
		if len(postIDs) == 0 {
			return &models.PostPage{Posts: []models.PostDetails{}, Total: 0}, nil
		}

		args = append(args, pq.Array(postIDs))
		where = append(where, fmt.Sprintf("p.id = ANY($%d)", len(args)))
	}

	query := postWithAuthorQuery
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	var rows []postRow
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]models.PostDetails, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.details())
	}

	if err := r.attachCategories(ctx, posts); err != nil {
		return nil, err
	}

	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &models.PostPage{Posts: posts, Total: total}, nil
}

func (r *PostRepositoryImpl) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts`); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

// attachCategories loads the categories of every post in one query and
// drops link rows whose category did not join.
func (r *PostRepositoryImpl) attachCategories(ctx context.Context, posts []models.PostDetails) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(posts))
	index := make(map[int64][]int, len(posts))
	for i, p := range posts {
		if _, seen := index[p.ID]; !seen {
			ids = append(ids, p.ID)
		}
		index[p.ID] = append(index[p.ID], i)
	}

	var rows []postCategoryRow
	if err := r.DB.SelectContext(ctx, &rows, postCategoriesQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to load post categories: %w", err)
	}

	for _, row := range rows {
		if !row.ID.Valid {
			continue
		}
		category := models.Category{
			ID:        row.ID.Int64,
			Name:      row.Name.String,
			Slug:      row.Slug.String,
			CreatedAt: row.CreatedAt.Time,
			UpdatedAt: row.UpdatedAt.Time,
		}
		if row.Description.Valid {
			description := row.Description.String
			category.Description = &description
		}
		for _, i := range index[row.PostID] {
			posts[i].Categories = append(posts[i].Categories, category)
		}
	}

	return nil
}

func insertPostCategories(ctx context.Context, tx *sqlx.Tx, postID int64, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	values := make([]string, 0, len(categoryIDs))
	args := make([]interface{}, 0, len(categoryIDs)*2)
	for _, categoryID := range categoryIDs {
		args = append(args, postID, categoryID)
		values = append(values, fmt.Sprintf("($%d, $%d)", len(args)-1, len(args)))
	}

	query := `INSERT INTO post_categories (post_id, category_id) VALUES ` + strings.Join(values, ", ")
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to link categories to post %d: %w", postID, classifyError(err))
	}

	return nil
}
