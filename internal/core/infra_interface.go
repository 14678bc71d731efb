package core

import (
	"context"
	"io"

	"github.com/markdave123-py/contexta-explain/internal/models"
)

// Stager materializes an uploaded file for the duration of one request.
// The returned handle deletes everything it staged on Release.
type Stager interface {
	Stage(ctx context.Context, fileName string, data io.Reader) (*models.DocumentHandle, error)
}
