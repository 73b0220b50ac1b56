package service

import (
	"blogCMS/internal/config"
	"blogCMS/internal/repository"
	"blogCMS/internal/storage"
)

type Service struct {
	User     UserService
	Category CategoryService
	Post     PostService
	Auth     AuthService
	Image    ImageService
	Seed     SeedService
	Tables   TablesService
}

// NewService wires every service over the repositories. store may be nil
// when object storage is disabled.
func NewService(rep *repository.Repository, cfg *config.Config, store storage.Storage, db Pinger) *Service {
	return &Service{
		User:     NewUserService(rep.User),
		Category: NewCategoryService(rep.Category),
		Post:     NewPostService(rep.Post),
		Auth:     NewAuthService(rep.User, cfg),
		Image:    NewImageService(store, cfg),
		Seed:     NewSeedService(rep),
		Tables:   NewTablesService(rep.Tables, db),
	}
}
