package core

import (
	"context"

	"github.com/markdave123-py/contexta-explain/internal/models"
)

// CompletionProvider turns one prompt into one full answer.
// Implementations must return *CompletionError on failure.
type CompletionProvider interface {
	Complete(ctx context.Context, req models.CompletionRequest) (models.CompletionResult, error)
}
