package repository

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"blogCMS/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	postCols = []string{
		"id", "title", "slug", "content", "excerpt", "featured_image", "author_id",
		"status", "published_at", "created_at", "updated_at",
	}
	postAuthorCols = append(append([]string{}, postCols...),
		"author_ref_id", "author_name", "author_email", "author_created_at", "author_updated_at")
	postCategoryCols = []string{"post_id", "id", "name", "slug", "description", "created_at", "updated_at"}
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "postgres")
	t.Cleanup(func() { sqlxDB.Close() })

	return sqlxDB, mock
}

func q(query string) string {
	return regexp.QuoteMeta(query)
}

// utcInstant matches a time argument that is the wanted instant expressed
// in UTC, so TIMESTAMPTZ and TIMESTAMP columns store the same value.
type utcInstant struct {
	want time.Time
}

func (a utcInstant) Match(v driver.Value) bool {
	t, ok := v.(time.Time)
	return ok && t.Location() == time.UTC && t.Equal(a.want)
}

func TestNewPostRepository(t *testing.T) {
	db, _ := setupMockDB(t)

	repo := NewPostRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.DB)
}

func TestPostRepositoryImpl_Create(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		post        *models.Post
		categoryIDs []int64
		setupMock   func(mock sqlmock.Sqlmock)
		expectError error
	}{
		{
			name: "draft without categories",
			post: &models.Post{Title: "Hello", Slug: "hello", Content: "body", AuthorID: 1},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(q("INSERT INTO posts")).
					WithArgs("Hello", "hello", "body", nil, nil, 1, "draft", nil).
					WillReturnRows(sqlmock.NewRows(postCols).
						AddRow(7, "Hello", "hello", "body", nil, nil, 1, "draft", nil, now, now))
				mock.ExpectCommit()
			},
		},
		{
			name:        "published with two categories",
			post:        &models.Post{Title: "Hello", Slug: "hello", Content: "body", AuthorID: 1, Status: models.StatusPublished},
			categoryIDs: []int64{2, 3},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(q("INSERT INTO posts")).
					WithArgs("Hello", "hello", "body", nil, nil, 1, "published", nil).
					WillReturnRows(sqlmock.NewRows(postCols).
						AddRow(7, "Hello", "hello", "body", nil, nil, 1, "published", nil, now, now))
				mock.ExpectExec(q("INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2), ($3, $4)")).
					WithArgs(7, 2, 7, 3).
					WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectCommit()
			},
		},
		{
			name: "duplicate slug",
			post: &models.Post{Title: "Hello", Slug: "hello", Content: "body", AuthorID: 1},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(q("INSERT INTO posts")).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "posts_slug_key"})
				mock.ExpectRollback()
			},
			expectError: models.ErrConstraintViolation,
		},
		{
			name:        "unknown category rolls the post back",
			post:        &models.Post{Title: "Hello", Slug: "hello", Content: "body", AuthorID: 1},
			categoryIDs: []int64{99},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(q("INSERT INTO posts")).
					WillReturnRows(sqlmock.NewRows(postCols).
						AddRow(7, "Hello", "hello", "body", nil, nil, 1, "draft", nil, now, now))
				mock.ExpectExec(q("INSERT INTO post_categories")).
					WithArgs(7, 99).
					WillReturnError(&pq.Error{Code: "23503", Constraint: "post_categories_category_id_fkey"})
				mock.ExpectRollback()
			},
			expectError: models.ErrConstraintViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewPostRepository(db)
			tt.setupMock(mock)

			err := repo.Create(context.Background(), tt.post, tt.categoryIDs)

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(7), tt.post.ID)
				assert.False(t, tt.post.CreatedAt.IsZero())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostRepositoryImpl_Update(t *testing.T) {
	now := time.Now()
	title := "Renamed"
	empty := []int64{}
	replaced := []int64{4}

	updatedRow := func() *sqlmock.Rows {
		return sqlmock.NewRows(postCols).
			AddRow(1, "Renamed", "hello", "body", nil, nil, 1, "draft", nil, now, now)
	}

	tests := []struct {
		name      string
		patch     PostPatch
		setupMock func(mock sqlmock.Sqlmock)
		expectNil bool
	}{
		{
			name:  "without categoryIds keeps links",
			patch: PostPatch{Title: &title},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(q("UPDATE posts SET title = $1, updated_at = NOW() WHERE id = $2 RETURNING")).
					WithArgs("Renamed", 1).
					WillReturnRows(updatedRow())
				mock.ExpectCommit()
			},
		},
		{
			name:  "empty categoryIds removes every link",
			patch: PostPatch{Title: &title, CategoryIDs: &empty},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(q("UPDATE posts SET")).
					WithArgs("Renamed", 1).
					WillReturnRows(updatedRow())
				mock.ExpectExec(q("DELETE FROM post_categories WHERE post_id = $1")).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectCommit()
			},
		},
		{
			name:  "categoryIds alone relinks without touching the row",
			patch: PostPatch{CategoryIDs: &replaced},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(q("SELECT " + postColumns + " FROM posts WHERE id = $1 FOR UPDATE")).
					WithArgs(1).
					WillReturnRows(updatedRow())
				mock.ExpectExec(q("DELETE FROM post_categories WHERE post_id = $1")).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(q("INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)")).
					WithArgs(1, 4).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:  "missing post",
			patch: PostPatch{Title: &title, CategoryIDs: &empty},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(q("UPDATE posts SET")).
					WillReturnRows(sqlmock.NewRows(postCols))
				mock.ExpectRollback()
			},
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewPostRepository(db)
			tt.setupMock(mock)

			post, err := repo.Update(context.Background(), 1, tt.patch)

			require.NoError(t, err)
			if tt.expectNil {
				assert.Nil(t, post)
			} else {
				require.NotNil(t, post)
				assert.Equal(t, "Renamed", post.Title)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostRepositoryImpl_PublishedAtStoredAsUTC(t *testing.T) {
	plus5 := time.FixedZone("+05:00", 5*60*60)
	publishedAt := time.Date(2026, 1, 1, 10, 0, 0, 0, plus5)
	instant := utcInstant{want: time.Date(2026, 1, 1, 5, 0, 0, 0, time.UTC)}
	now := time.Now()

	t.Run("create", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(q("INSERT INTO posts")).
			WithArgs("Hello", "hello", "body", nil, nil, 1, "published", instant).
			WillReturnRows(sqlmock.NewRows(postCols).
				AddRow(7, "Hello", "hello", "body", nil, nil, 1, "published", instant.want, now, now))
		mock.ExpectCommit()

		post := &models.Post{
			Title: "Hello", Slug: "hello", Content: "body", AuthorID: 1,
			Status: models.StatusPublished, PublishedAt: &publishedAt,
		}
		err := repo.Create(context.Background(), post, nil)

		require.NoError(t, err)
		require.NotNil(t, post.PublishedAt)
		assert.True(t, publishedAt.Equal(*post.PublishedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(q("UPDATE posts SET published_at = $1, updated_at = NOW() WHERE id = $2 RETURNING")).
			WithArgs(instant, 1).
			WillReturnRows(sqlmock.NewRows(postCols).
				AddRow(1, "Hello", "hello", "body", nil, nil, 1, "published", instant.want, now, now))
		mock.ExpectCommit()

		post, err := repo.Update(context.Background(), 1, PostPatch{PublishedAt: &publishedAt})

		require.NoError(t, err)
		require.NotNil(t, post)
		assert.True(t, publishedAt.Equal(*post.PublishedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepositoryImpl_Delete_Twice(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec(q("DELETE FROM posts WHERE id = $1")).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("DELETE FROM posts WHERE id = $1")).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), 1))
	assert.NoError(t, repo.Delete(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryImpl_GetBySlug_WithCategory(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	now := time.Now()

	mock.ExpectQuery(q("FROM posts p LEFT JOIN users u ON u.id = p.author_id WHERE p.slug = $1")).
		WithArgs("a").
		WillReturnRows(sqlmock.NewRows(postAuthorCols).
			AddRow(1, "A", "a", "body", nil, nil, 3, "published", now, now, now,
				3, "Admin User", "admin@blog.com", now, now))
	mock.ExpectQuery(q("FROM post_categories pc LEFT JOIN categories c")).
		WithArgs("{1}").
		WillReturnRows(sqlmock.NewRows(postCategoryCols).
			AddRow(1, 10, "Tech", "tech", nil, now, now).
			AddRow(1, nil, nil, nil, nil, nil, nil))

	post, err := repo.GetBySlug(context.Background(), "a")

	require.NoError(t, err)
	require.NotNil(t, post)
	require.Len(t, post.Categories, 1)
	assert.Equal(t, "Tech", post.Categories[0].Name)
	require.NotNil(t, post.Author)
	assert.Equal(t, "Admin User", post.Author.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryImpl_GetByID(t *testing.T) {
	now := time.Now()

	t.Run("missing author leaves author nil", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectQuery(q("WHERE p.id = $1")).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(postAuthorCols).
				AddRow(1, "A", "a", "body", "short", "http://img", 3, "draft", nil, now, now,
					nil, nil, nil, nil, nil))
		mock.ExpectQuery(q("FROM post_categories pc")).
			WithArgs("{1}").
			WillReturnRows(sqlmock.NewRows(postCategoryCols))

		post, err := repo.GetByID(context.Background(), 1)

		require.NoError(t, err)
		require.NotNil(t, post)
		assert.Nil(t, post.Author)
		assert.Empty(t, post.Categories)
		assert.NotNil(t, post.Categories)
		require.NotNil(t, post.Excerpt)
		assert.Equal(t, "short", *post.Excerpt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectQuery(q("WHERE p.id = $1")).
			WithArgs(42).
			WillReturnRows(sqlmock.NewRows(postAuthorCols))

		post, err := repo.GetByID(context.Background(), 42)

		assert.NoError(t, err)
		assert.Nil(t, post)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepositoryImpl_List(t *testing.T) {
	now := time.Now()
	published := models.StatusPublished
	emptyCategory := int64(5)
	category := int64(2)

	t.Run("category without posts short-circuits", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectQuery(q("SELECT post_id FROM post_categories WHERE category_id = $1")).
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows([]string{"post_id"}))

		page, err := repo.List(context.Background(), PostFilter{Limit: 10, CategoryID: &emptyCategory})

		require.NoError(t, err)
		assert.Empty(t, page.Posts)
		assert.NotNil(t, page.Posts)
		assert.Equal(t, 0, page.Total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status filter keeps the unfiltered total", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectQuery(q("WHERE p.status = $1 ORDER BY p.created_at DESC, p.id DESC LIMIT $2 OFFSET $3")).
			WithArgs("published", 10, 0).
			WillReturnRows(sqlmock.NewRows(postAuthorCols).
				AddRow(2, "B", "b", "body", nil, nil, 1, "published", now, now, now, 1, "Admin", "a@b.c", now, now))
		mock.ExpectQuery(q("FROM post_categories pc")).
			WithArgs("{2}").
			WillReturnRows(sqlmock.NewRows(postCategoryCols))
		mock.ExpectQuery(q("SELECT COUNT(*) FROM posts")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		page, err := repo.List(context.Background(), PostFilter{Limit: 10, Status: &published})

		require.NoError(t, err)
		require.Len(t, page.Posts, 1)
		assert.Equal(t, models.StatusPublished, page.Posts[0].Status)
		assert.Equal(t, 3, page.Total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status and category combine", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectQuery(q("SELECT post_id FROM post_categories WHERE category_id = $1")).
			WithArgs(2).
			WillReturnRows(sqlmock.NewRows([]string{"post_id"}).AddRow(4).AddRow(6))
		mock.ExpectQuery(q("WHERE p.status = $1 AND p.id = ANY($2) ORDER BY p.created_at DESC, p.id DESC LIMIT $3 OFFSET $4")).
			WithArgs("published", "{4,6}", 5, 5).
			WillReturnRows(sqlmock.NewRows(postAuthorCols))
		mock.ExpectQuery(q("SELECT COUNT(*) FROM posts")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))

		page, err := repo.List(context.Background(), PostFilter{Limit: 5, Offset: 5, Status: &published, CategoryID: &category})

		require.NoError(t, err)
		assert.Empty(t, page.Posts)
		assert.Equal(t, 8, page.Total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("limit one returns the newest", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)
		later := now.Add(time.Minute)

		mock.ExpectQuery(q("ORDER BY p.created_at DESC, p.id DESC LIMIT $1 OFFSET $2")).
			WithArgs(1, 0).
			WillReturnRows(sqlmock.NewRows(postAuthorCols).
				AddRow(2, "Second", "second", "body", nil, nil, 1, "draft", nil, later, later, 1, "Admin", "a@b.c", now, now))
		mock.ExpectQuery(q("FROM post_categories pc")).
			WithArgs("{2}").
			WillReturnRows(sqlmock.NewRows(postCategoryCols).
				AddRow(2, 1, "Tech", "tech", "all things tech", now, now))
		mock.ExpectQuery(q("SELECT COUNT(*) FROM posts")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		page, err := repo.List(context.Background(), PostFilter{Limit: 1})

		require.NoError(t, err)
		require.Len(t, page.Posts, 1)
		assert.Equal(t, "second", page.Posts[0].Slug)
		require.Len(t, page.Posts[0].Categories, 1)
		require.NotNil(t, page.Posts[0].Categories[0].Description)
		assert.Equal(t, 2, page.Total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
