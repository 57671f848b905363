package interfaces

import "context"

// BlobStorage abstracts the media object store (S3 or GCS in production).
type BlobStorage interface {
	// Put uploads an object and returns its public URL
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
