package service

import (
	"context"
	"time"

	"blogCMS/internal/models"
	"blogCMS/internal/repository"
)

const defaultPageSize = 10

type CreatePostRequest struct {
	Title         string            `json:"title" validate:"required,min=1,max=255"`
	Slug          string            `json:"slug" validate:"required,min=1,max=255"`
	Content       string            `json:"content" validate:"required,min=1"`
	Excerpt       *string           `json:"excerpt" validate:"omitnil,max=500"`
	FeaturedImage *string           `json:"featuredImage" validate:"omitnil,max=500"`
	AuthorID      int64             `json:"authorId" validate:"required,min=1"`
	Status        models.PostStatus `json:"status" validate:"omitempty,oneof=draft published"`
	PublishedAt   *time.Time        `json:"publishedAt"`
	CategoryIDs   []int64           `json:"categoryIds"`
}

// UpdatePostRequest distinguishes an absent categoryIds (nil pointer, links
// kept) from an empty list (links removed).
type UpdatePostRequest struct {
	ID            int64              `json:"id" validate:"required,min=1"`
	Title         *string            `json:"title" validate:"omitnil,min=1,max=255"`
	Slug          *string            `json:"slug" validate:"omitnil,min=1,max=255"`
	Content       *string            `json:"content" validate:"omitnil,min=1"`
	Excerpt       *string            `json:"excerpt" validate:"omitnil,max=500"`
	FeaturedImage *string            `json:"featuredImage" validate:"omitnil,max=500"`
	AuthorID      *int64             `json:"authorId" validate:"omitnil,min=1"`
	Status        *models.PostStatus `json:"status" validate:"omitnil,oneof=draft published"`
	PublishedAt   *time.Time         `json:"publishedAt"`
	CategoryIDs   *[]int64           `json:"categoryIds"`
}

type ListPostsRequest struct {
	Limit      *int               `json:"limit" validate:"omitnil,min=0"`
	Offset     int                `json:"offset" validate:"min=0"`
	Status     *models.PostStatus `json:"status" validate:"omitnil,oneof=draft published"`
	CategoryID *int64             `json:"categoryId" validate:"omitnil,min=1"`
}

type PostService interface {
	Create(ctx context.Context, req CreatePostRequest) (*models.Post, error)
	Update(ctx context.Context, req UpdatePostRequest) (*models.Post, error)
	Delete(ctx context.Context, req IDRequest) error
	GetByID(ctx context.Context, req IDRequest) (*models.PostDetails, error)
	GetBySlug(ctx context.Context, req SlugRequest) (*models.PostDetails, error)
	List(ctx context.Context, req ListPostsRequest) (*models.PostPage, error)
}

type postService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) PostService {
	return &postService{postRepo: postRepo}
}

// Create stores the post as given: status defaults to draft and publishedAt
// is never derived from the status.
func (p *postService) Create(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}

	post := &models.Post{
		Title:         req.Title,
		Slug:          req.Slug,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		AuthorID:      req.AuthorID,
		Status:        status,
		PublishedAt:   req.PublishedAt,
	}

	if err := p.postRepo.Create(ctx, post, req.CategoryIDs); err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) Update(ctx context.Context, req UpdatePostRequest) (*models.Post, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	return p.postRepo.Update(ctx, req.ID, repository.PostPatch{
		Title:         req.Title,
		Slug:          req.Slug,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		AuthorID:      req.AuthorID,
		Status:        req.Status,
		PublishedAt:   req.PublishedAt,
		CategoryIDs:   req.CategoryIDs,
	})
}

func (p *postService) Delete(ctx context.Context, req IDRequest) error {
	if err := validateInput(req); err != nil {
		return err
	}

	return p.postRepo.Delete(ctx, req.ID)
}

func (p *postService) GetByID(ctx context.Context, req IDRequest) (*models.PostDetails, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	return p.postRepo.GetByID(ctx, req.ID)
}

func (p *postService) GetBySlug(ctx context.Context, req SlugRequest) (*models.PostDetails, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	return p.postRepo.GetBySlug(ctx, req.Slug)
}

func (p *postService) List(ctx context.Context, req ListPostsRequest) (*models.PostPage, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	limit := defaultPageSize
	if req.Limit != nil {
		limit = *req.Limit
	}

	return p.postRepo.List(ctx, repository.PostFilter{
		Limit:      limit,
		Offset:     req.Offset,
		Status:     req.Status,
		CategoryID: req.CategoryID,
	})
}
