package service

import (
	"context"

	"blogCMS/internal/models"
	"blogCMS/internal/repository"
)

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Slug        string  `json:"slug" validate:"required,min=1,max=255"`
	Description *string `json:"description"`
}

type UpdateCategoryRequest struct {
	ID          int64   `json:"id" validate:"required,min=1"`
	Name        *string `json:"name" validate:"omitnil,min=1,max=255"`
	Slug        *string `json:"slug" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description"`
}

type IDRequest struct {
	ID int64 `json:"id" validate:"required,min=1"`
}

type SlugRequest struct {
	Slug string `json:"slug" validate:"required"`
}

type CategoryService interface {
	Create(ctx context.Context, req CreateCategoryRequest) (*models.Category, error)
	Update(ctx context.Context, req UpdateCategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, req IDRequest) error
	GetByID(ctx context.Context, req IDRequest) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) Create(ctx context.Context, req CreateCategoryRequest) (*models.Category, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *categoryService) Update(ctx context.Context, req UpdateCategoryRequest) (*models.Category, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	return s.categoryRepo.Update(ctx, req.ID, repository.CategoryPatch{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
}

func (s *categoryService) Delete(ctx context.Context, req IDRequest) error {
	if err := validateInput(req); err != nil {
		return err
	}

	return s.categoryRepo.Delete(ctx, req.ID)
}

func (s *categoryService) GetByID(ctx context.Context, req IDRequest) (*models.Category, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	return s.categoryRepo.GetByID(ctx, req.ID)
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}
