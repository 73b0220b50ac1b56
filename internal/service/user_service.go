package service

import (
	"context"

	"blogCMS/internal/models"
	"blogCMS/internal/repository"
)

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
}

type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (*models.User, error)
	GetByID(ctx context.Context, req IDRequest) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, req IDRequest) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	user := &models.User{Name: req.Name, Email: req.Email}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, req IDRequest) (*models.User, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, req.ID)
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// Delete removes the user together with their posts.
func (s *userService) Delete(ctx context.Context, req IDRequest) error {
	if err := validateInput(req); err != nil {
		return err
	}

	return s.userRepo.Delete(ctx, req.ID)
}
