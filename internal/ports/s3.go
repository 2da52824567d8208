package ports

import (
	"context"
	"io"
)

// S3Client stores one object and returns its public URL.
type S3Client interface {
	PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) (publicURL string, err error)
}

// S3Service publishes worker artifacts (the TTS WAV) under a dated key.
type S3Service interface {
	ObjectKey(kind, filename string) string
	Publish(ctx context.Context, path string) (string, error)
}
