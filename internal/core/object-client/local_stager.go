package objectclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/markdave123-py/contexta-explain/internal/core"
	"github.com/markdave123-py/contexta-explain/internal/models"
)

// LocalStager keeps uploads in a directory on local disk.
type LocalStager struct {
	dir string
}

func NewLocalStager(dir string) (*LocalStager, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStager{dir: dir}, nil
}

// Stage writes data under a fresh uuid so concurrent requests never share a path.
func (s *LocalStager) Stage(ctx context.Context, fileName string, data io.Reader) (*models.DocumentHandle, error) {
	id := uuid.NewString()
	path, err := writeStaged(s.dir, id, data)
	if err != nil {
		return nil, err
	}
	return models.NewDocumentHandle(id, cleanFileName(fileName), path, func(context.Context) error {
		return removeStaged(path)
	}), nil
}

func writeStaged(dir, id string, data io.Reader) (string, error) {
	path := filepath.Join(dir, id+".pdf")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create staged file: %w", err)
	}
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close staged file: %w", err)
	}
	return path, nil
}

// removeStaged treats an already-missing file as deleted.
func removeStaged(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove staged file: %w", err)
	}
	return nil
}

// cleanFileName strips path components and spaces from client supplied names.
func cleanFileName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) {
		return "upload.pdf"
	}
	return strings.ReplaceAll(name, " ", "_")
}

var _ core.Stager = (*LocalStager)(nil)
