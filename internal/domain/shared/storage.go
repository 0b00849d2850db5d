package shared

import (
	"context"
	"io"
	"time"
)

// ObjectStorage stores files in one bucket of an S3-compatible service
type ObjectStorage interface {
	// Upload writes body under key, replacing any existing object
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	// DownloadURL returns a presigned GET URL and its expiry
	DownloadURL(ctx context.Context, key string) (string, time.Time, error)
	Delete(ctx context.Context, key string) error
}
