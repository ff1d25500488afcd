package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PresignedURLTTL is the default expiration time for presigned URLs.
const PresignedURLTTL = 15 * time.Minute

// MinIOStore implements BlobStore using MinIO.
type MinIOStore struct {
	client       *minio.Client
	bucket       string
	mediaBaseURL string
	maxFileSize  int64
}

// NewMinIOStore creates a new MinIO-backed blob store.
func NewMinIOStore(cfg Config) (*MinIOStore, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	mediaBase := strings.TrimSuffix(cfg.GetMediaBaseURL(), "/")
	if mediaBase == "" {
		scheme := "http"
		if cfg.GetMinIOUseSSL() {
			scheme = "https"
		}
		mediaBase = fmt.Sprintf("%s://%s/%s", scheme, cfg.GetMinIOEndpoint(), cfg.GetMinioBucketLeadUploads())
	}

	return &MinIOStore{
		client:       client,
		bucket:       cfg.GetMinioBucketLeadUploads(),
		mediaBaseURL: mediaBase,
		maxFileSize:  cfg.GetMinIOMaxFileSize(),
	}, nil
}

// EnsureBucketExists creates the configured bucket if it doesn't exist.
func (s *MinIOStore) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}

	return nil
}

// UploadFile uploads a file from an io.Reader under a unique key.
// A short UUID suffix prevents overwrites when customers upload files
// with identical names.
func (s *MinIOStore) UploadFile(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (*UploadResult, error) {
	if err := s.ValidateContentType(contentType); err != nil {
		return nil, err
	}
	if err := s.ValidateFileSize(size); err != nil {
		return nil, err
	}

	ext := path.Ext(fileName)
	baseName := strings.TrimSuffix(fileName, ext)
	uniqueFileName := fmt.Sprintf("%s_%s%s", baseName, uuid.New().String()[:8], ext)
	fileKey := filepath.ToSlash(filepath.Join(folder, uniqueFileName))

	_, err := s.client.PutObject(ctx, s.bucket, fileKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file %s: %w", fileKey, err)
	}

	return &UploadResult{
		FileKey:   fileKey,
		PublicURL: s.mediaBaseURL + "/" + fileKey,
		SizeBytes: size,
	}, nil
}

// GenerateDownloadURL creates a presigned URL for downloading a file.
func (s *MinIOStore) GenerateDownloadURL(ctx context.Context, fileKey string) (*PresignedURL, error) {
	expiresAt := time.Now().Add(PresignedURLTTL)

	reqParams := make(url.Values)
	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucket, fileKey, PresignedURLTTL, reqParams)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned download URL: %w", err)
	}

	return &PresignedURL{
		URL:       presignedURL.String(),
		FileKey:   fileKey,
		ExpiresAt: expiresAt,
	}, nil
}

// MaxFileSize returns the configured maximum file size in bytes.
func (s *MinIOStore) MaxFileSize() int64 {
	return s.maxFileSize
}
