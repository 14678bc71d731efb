package objectclient

import (
	"context"
	"io"
)

// ObjectClient is the subset of object storage the S3 stager needs.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
}
