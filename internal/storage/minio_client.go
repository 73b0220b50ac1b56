package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"blogCMS/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const featuredPrefix = "featured"

type Storage interface {
	UploadImage(ctx context.Context, fileName, contentType, ext string, file io.Reader, size int64) (string, string, error)
	DeleteImage(ctx context.Context, objectName string) error
	ImageURL(objectName string) string
}

type MinIOClient struct {
	client *minio.Client
	bucket string
	public string
}

// NewMinIOClient connects to the object store and creates the bucket when
// it does not exist yet.
func NewMinIOClient(ctx context.Context, cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	m := &MinIOClient{
		client: client,
		bucket: cfg.MinIO.BucketName,
		public: strings.TrimSuffix(cfg.MinIO.PublicURL, "/"),
	}

	if err := m.ensureBucket(ctx, cfg.MinIO.Region); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *MinIOClient) ensureBucket(ctx context.Context, region string) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", m.bucket, err)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", m.bucket, err)
	}

	return nil
}

// ObjectName builds the key featured/YYYY/MM/<uuid><ext>.
func ObjectName(now time.Time, ext string) string {
	return fmt.Sprintf("%s/%d/%02d/%s%s",
		featuredPrefix,
		now.Year(),
		now.Month(),
		uuid.New().String(),
		ext)
}

// UploadImage stores the file and returns its object name and public URL.
func (m *MinIOClient) UploadImage(ctx context.Context, fileName, contentType, ext string, file io.Reader, size int64) (string, string, error) {
	now := time.Now().UTC()
	objectName := ObjectName(now, ext)

	_, err := m.client.PutObject(ctx, m.bucket, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload %q to MinIO: %w", objectName, err)
	}

	return objectName, m.ImageURL(objectName), nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete %q from MinIO: %w", objectName, err)
	}
	return nil
}

func (m *MinIOClient) ImageURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", m.public, m.bucket, objectName)
}
