// Package storage provides a domain-agnostic adapter for S3-compatible
// object storage. Lead media uploads go through this adapter; the rest of
// the application only ever sees URLs.
package storage

import (
	"context"
	"io"
	"time"
)

// PresignedURL contains the URL and metadata for a presigned download.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UploadResult describes a stored object.
type UploadResult struct {
	FileKey   string
	PublicURL string
	SizeBytes int64
}

// BlobStore defines the interface for object storage operations.
type BlobStore interface {
	// UploadFile stores the reader's content under a unique key inside folder
	// and returns the key plus a stable public URL.
	UploadFile(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (*UploadResult, error)

	// GenerateDownloadURL creates a short-lived presigned URL for a stored object.
	GenerateDownloadURL(ctx context.Context, fileKey string) (*PresignedURL, error)

	// EnsureBucketExists creates the configured bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context) error

	// ValidateContentType checks if the content type is allowed for lead media.
	ValidateContentType(contentType string) error

	// ValidateFileSize checks if the file size is within limits.
	ValidateFileSize(sizeBytes int64) error

	// MaxFileSize returns the configured maximum file size in bytes.
	MaxFileSize() int64
}

// Config defines the configuration interface for storage.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketLeadUploads() string
	GetMediaBaseURL() string
	IsMinIOEnabled() bool
}
