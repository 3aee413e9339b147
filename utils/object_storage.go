package utils

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/africandeluxe/RedditClone2-Backend/config"
)

// ObjectStorage stores profile pictures in a MinIO bucket and hands back
// public URLs. Handlers treat it as an opaque collaborator.
type ObjectStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewObjectStorage connects to MinIO and ensures the bucket exists.
func NewObjectStorage(ctx context.Context, cfg config.AppConfig) (*ObjectStorage, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	publicURL := cfg.MinioPublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.MinioEndpoint)
	}

	return &ObjectStorage{client: client, bucket: cfg.MinioBucket, publicURL: publicURL}, nil
}

// Upload stores the object under a random name and returns its public URL.
func (s *ObjectStorage) Upload(ctx context.Context, ext string, data []byte, contentType string) (string, error) {
	key := uuid.NewString() + ext
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio put object: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key), nil
}
