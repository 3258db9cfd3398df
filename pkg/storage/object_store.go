// Package storage provides object storage for uploaded dataset files.
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/Ankita1800/chatdb-engine/pkg/config"
)

// ObjectStore abstracts the S3-compatible store holding raw uploaded files.
// Objects are keyed by "{owner}/{dataset_id}/{filename}".
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Remove(ctx context.Context, key string) error
}

// MinioStore implements ObjectStore against a MinIO / S3-compatible endpoint.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewMinioStore creates the object store client and ensures the configured
// bucket exists.
func NewMinioStore(ctx context.Context, cfg *config.ObjectStoreConfig, logger *zap.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, err)
		}
		logger.Info("Created object store bucket", zap.String("bucket", cfg.Bucket))
	}

	return &MinioStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// ObjectKey builds the canonical key for an uploaded file.
func ObjectKey(owner, datasetID, filename string) string {
	return fmt.Sprintf("%s/%s/%s", owner, datasetID, filename)
}

// Put uploads the raw file bytes under the given key.
func (s *MinioStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store object %q: %w", key, err)
	}
	return nil
}

// Remove deletes the object under the given key. Removing a missing object
// is not an error.
func (s *MinioStore) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %q: %w", key, err)
	}
	return nil
}

// Ensure MinioStore implements ObjectStore at compile time.
var _ ObjectStore = (*MinioStore)(nil)
