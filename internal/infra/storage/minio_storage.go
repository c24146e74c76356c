package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"lecture-transcription/internal/config"
	"lecture-transcription/internal/domain"
	"lecture-transcription/internal/domain/ports/adapter"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var _ adapter.Storage = (*MinioStorage)(nil)

// MinioStorage implements the storage port against MinIO/S3: audio objects
// are fetched into a local temp file for the ffmpeg/whisper stages.
type MinioStorage struct {
	client  *minio.Client
	bucket  string
	region  string
	tempDir string
}

func New(cfg *config.StorageConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	tempDir := cfg.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &MinioStorage{client: client, bucket: cfg.Bucket, region: cfg.Region, tempDir: tempDir}, nil
}

// EnsureBucket makes sure the audio bucket exists before use.
func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Upload stores an audio object; used by the management API on create.
func (s *MinioStorage) Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size, opts); err != nil {
		return fmt.Errorf("upload object: %w", err)
	}
	return nil
}

// Download fetches the object into a temp file and returns its path.
func (s *MinioStorage) Download(ctx context.Context, objectKey string) (string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("get object %s: %w", objectKey, err)
	}
	defer obj.Close()

	f, err := os.CreateTemp(s.tempDir, "lecture-*"+filepath.Ext(objectKey))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, obj); err != nil {
		_ = os.Remove(f.Name())
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", fmt.Errorf("%w: %s", domain.ErrStorageNotFound, objectKey)
		}
		return "", fmt.Errorf("read object %s: %w", objectKey, err)
	}
	return f.Name(), nil
}

// DeleteLocal removes a local artifact. Best-effort: a missing file is fine.
func (s *MinioStorage) DeleteLocal(ctx context.Context, localPath string) error {
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
