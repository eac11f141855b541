package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestNewFromDriver(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		driver  string
		opts    FactoryOptions
		wantErr error
	}{
		{name: "unknown driver", driver: "ftp", wantErr: ErrUnknownDriver},
		{name: "empty driver", driver: "", wantErr: ErrUnknownDriver},
		{name: "s3 without bucket", driver: "S3", wantErr: ErrBucketRequired},
		{name: "gcs without bucket", driver: " gcs ", wantErr: ErrBucketRequired},
		{name: "minio without bucket", driver: "minio", wantErr: ErrBucketRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewFromDriver(ctx, tt.driver, tt.opts)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
		})
	}
}

func TestNewMinIO(t *testing.T) {
	got, err := NewMinIO(MinIOOptions{Bucket: "spool", Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.NoError(t, got.Close())
}

func TestS3Error(t *testing.T) {
	assert.NoError(t, s3Error(nil))

	notFound := s3Error(&smithy.GenericAPIError{Code: "NoSuchKey", Message: "missing"})
	assert.ErrorIs(t, notFound, ErrObjectNotFound)

	denied := &smithy.GenericAPIError{Code: "AccessDenied"}
	assert.Equal(t, denied, s3Error(denied))

	plain := errors.New("boom")
	assert.Equal(t, plain, s3Error(plain))
}
