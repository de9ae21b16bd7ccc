package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/vidvault/vidvault/internal/config"
)

// Storage defines the interface for blob storage operations. Save and Open
// take a context so a disconnecting client can abort a transfer in flight.
type Storage interface {
	// Save streams a blob to the given path
	Save(ctx context.Context, path string, r io.Reader) error

	// Open returns a reader over the blob at the given path
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the blob at the given path; deleting an absent blob
	// is not an error
	Delete(ctx context.Context, path string) error

	// Exists reports whether a blob is present at the given path
	Exists(ctx context.Context, path string) (bool, error)

	// URL returns a directly fetchable URL for the blob, or "" when the
	// backend can only serve through Open
	URL(path string) string
}

// New selects a storage backend from app config.
func New(c *config.Config) (Storage, error) {
	switch c.StorageDriver {
	case "local":
		return NewLocalStorage(c.LocalStoragePath)
	case "s3":
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	}
	return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
}
