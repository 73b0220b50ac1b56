package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"blogCMS/internal/config"
	"blogCMS/internal/models"
	"blogCMS/internal/storage"
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type UploadedImage struct {
	URL        string `json:"url"`
	ObjectName string `json:"objectName"`
}

type ImageService interface {
	UploadFeaturedImage(ctx context.Context, fileName string, file io.Reader, size int64) (*UploadedImage, error)
	DeleteFeaturedImage(ctx context.Context, objectName string) error
}

type imageService struct {
	storage storage.Storage
	cfg     *config.Config
}

// NewImageService accepts a nil store; every call then fails with
// models.ErrStorageDisabled.
func NewImageService(store storage.Storage, cfg *config.Config) ImageService {
	return &imageService{storage: store, cfg: cfg}
}

func (s *imageService) UploadFeaturedImage(ctx context.Context, fileName string, file io.Reader, size int64) (*UploadedImage, error) {
	if s.storage == nil {
		return nil, models.ErrStorageDisabled
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	contentType, ok := imageTypes[ext]
	if !ok {
		return nil, &models.ValidationError{
			Fields: []string{"image"},
			Reason: fmt.Sprintf("unsupported image type %q", ext),
		}
	}
	if size <= 0 || size > s.cfg.MaxUploadSize {
		return nil, &models.ValidationError{
			Fields: []string{"image"},
			Reason: fmt.Sprintf("image size must be between 1 and %d bytes", s.cfg.MaxUploadSize),
		}
	}

	objectName, url, err := s.storage.UploadImage(ctx, fileName, contentType, ext, file, size)
	if err != nil {
		return nil, err
	}

	return &UploadedImage{URL: url, ObjectName: objectName}, nil
}

func (s *imageService) DeleteFeaturedImage(ctx context.Context, objectName string) error {
	if s.storage == nil {
		return models.ErrStorageDisabled
	}

	if !strings.HasPrefix(objectName, "featured/") || strings.Contains(objectName, "..") {
		return &models.ValidationError{Fields: []string{"objectName"}, Reason: "not a featured image key"}
	}

	return s.storage.DeleteImage(ctx, objectName)
}
