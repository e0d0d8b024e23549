package ports

import (
	"context"
	"io"
	"time"
)

// BlobStore abstracts the object storage holding video files.
type BlobStore interface {
	Upload(ctx context.Context, objectKey string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, objectKey string) error
	PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}
