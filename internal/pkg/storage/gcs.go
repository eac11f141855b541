package storage

import (
	"context"
	"errors"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSAdapter implements Storage using Google Cloud Storage.
type GCSAdapter struct {
	client *gcs.Client
	bucket string
}

// GCSOptions configures GCS client initialization.
type GCSOptions struct {
	Bucket string
	// Client provides an existing GCS client; when nil one is created from ClientOptions.
	Client        *gcs.Client
	ClientOptions []option.ClientOption
}

// NewGCS constructs a GCS adapter.
func NewGCS(ctx context.Context, opts GCSOptions) (*GCSAdapter, error) {
	if opts.Bucket == "" {
		return nil, ErrBucketRequired
	}

	client := opts.Client
	if client == nil {
		created, err := gcs.NewClient(ctx, opts.ClientOptions...)
		if err != nil {
			return nil, err
		}
		client = created
	}

	return &GCSAdapter{client: client, bucket: opts.Bucket}, nil
}

// Put uploads data to GCS.
func (g *GCSAdapter) Put(ctx context.Context, key string, data []byte, contentType string) error {
	writer := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		writer.ContentType = contentType
	}

	if _, err := writer.Write(data); err != nil {
		return errors.Join(err, writer.Close())
	}

	return writer.Close()
}

// Get downloads the object from GCS.
func (g *GCSAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	reader, err := g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, gcsError(err)
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

// Copy performs a server-side copy.
func (g *GCSAdapter) Copy(ctx context.Context, src, dst string) error {
	bucket := g.client.Bucket(g.bucket)
	_, err := bucket.Object(dst).CopierFrom(bucket.Object(src)).Run(ctx)
	return gcsError(err)
}

// Delete removes an object from GCS.
func (g *GCSAdapter) Delete(ctx context.Context, key string) error {
	err := g.client.Bucket(g.bucket).Object(key).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

// List iterates every object under prefix.
func (g *GCSAdapter) List(ctx context.Context, prefix string) ([]Object, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &gcs.Query{Prefix: prefix})

	objects := make([]Object, 0)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		objects = append(objects, Object{
			Key:       attrs.Name,
			Size:      attrs.Size,
			UpdatedAt: attrs.Updated,
		})
	}

	return objects, nil
}

// Close closes the GCS client.
func (g *GCSAdapter) Close() error {
	return g.client.Close()
}

func gcsError(err error) error {
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return errors.Join(ErrObjectNotFound, err)
	}
	return err
}
