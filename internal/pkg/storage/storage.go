// Package storage provides bucket-bound object storage used for durable
// queues such as the mail spool. Adapters exist for AWS S3, Google Cloud
// Storage and MinIO.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrObjectNotFound is returned when the requested key does not exist.
	ErrObjectNotFound = errors.New("storage: object not found")
	// ErrBucketRequired is returned when an adapter is built without a bucket.
	ErrBucketRequired = errors.New("storage: bucket is required")
)

// Storage defines the object operations of a single bucket.
type Storage interface {
	io.Closer

	// Put stores data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get reads the whole object.
	Get(ctx context.Context, key string) ([]byte, error)
	// Copy duplicates src into dst inside the bucket.
	Copy(ctx context.Context, src, dst string) error
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns every object whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]Object, error)
}

// Object describes a stored object.
type Object struct {
	Key       string
	Size      int64
	UpdatedAt time.Time
}
