package objectclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/markdave123-py/contexta-explain/internal/core"
	"github.com/markdave123-py/contexta-explain/internal/models"
)

// S3Stager mirrors each upload to a bucket and keeps a local copy for the
// extraction engines. Release deletes both.
type S3Stager struct {
	obj    ObjectClient
	bucket string
	dir    string
	logger *zap.Logger
}

func NewS3Stager(obj ObjectClient, bucket, dir string, logger *zap.Logger) (*S3Stager, error) {
	local, err := NewLocalStager(dir)
	if err != nil {
		return nil, err
	}
	return &S3Stager{obj: obj, bucket: bucket, dir: local.dir, logger: logger}, nil
}

func (s *S3Stager) Stage(ctx context.Context, fileName string, data io.Reader) (*models.DocumentHandle, error) {
	id := uuid.NewString()
	name := cleanFileName(fileName)
	key := s.objectKey(id, name)

	localPath, err := writeStaged(s.dir, id, data)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(localPath)
	if err != nil {
		_ = removeStaged(localPath)
		return nil, fmt.Errorf("reopen staged file: %w", err)
	}
	url, err := s.obj.UploadFile(ctx, s.bucket, key, f, "application/pdf")
	_ = f.Close()
	if err != nil {
		_ = removeStaged(localPath)
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	s.logger.Debug("staged upload in object storage", zap.String("document_id", id), zap.String("url", url))

	return models.NewDocumentHandle(id, name, localPath, func(ctx context.Context) error {
		return errors.Join(
			removeStaged(localPath),
			s.obj.DeleteFile(context.WithoutCancel(ctx), s.bucket, key),
		)
	}), nil
}

// objectKey creates a consistent S3 key layout.
func (s *S3Stager) objectKey(id, fileName string) string {
	return path.Join("staging", id, fileName)
}

var _ core.Stager = (*S3Stager)(nil)
