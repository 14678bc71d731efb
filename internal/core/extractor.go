package core

import (
	"context"

	"github.com/markdave123-py/contexta-explain/internal/models"
)

// TextEngine is a black-box text extractor working on a local file.
type TextEngine interface {
	Extract(ctx context.Context, path string) (string, error)
}

// DocumentExtractor exposes both extraction tiers behind one interface.
// Errors are always *ExtractionError.
type DocumentExtractor interface {
	ExtractFast(ctx context.Context, doc *models.DocumentHandle) (models.ExtractionResult, error)
	ExtractOCR(ctx context.Context, doc *models.DocumentHandle) (models.ExtractionResult, error)
}

// TextPipeline produces the best available text for a document and
// releases the document on every exit.
type TextPipeline interface {
	Run(ctx context.Context, doc *models.DocumentHandle) (models.ExtractionResult, error)
}
