package ingestion_engine

import (
	"context"
	"errors"
	"os/exec"

	"github.com/markdave123-py/contexta-explain/internal/core"
	"github.com/markdave123-py/contexta-explain/internal/models"
)

var _ core.DocumentExtractor = (*ExtractionAdapter)(nil)

// ExtractionAdapter puts the fast and OCR engines behind one interface and
// normalizes whatever they return into *core.ExtractionError. No retries.
type ExtractionAdapter struct {
	fast core.TextEngine
	ocr  core.TextEngine
	cfg  *IngestConfig
}

func NewExtractionAdapter(fast, ocr core.TextEngine, cfg *IngestConfig) *ExtractionAdapter {
	if cfg == nil {
		cfg = DefaultIngestConfig()
	}
	return &ExtractionAdapter{fast: fast, ocr: ocr, cfg: cfg}
}

func (a *ExtractionAdapter) ExtractFast(ctx context.Context, doc *models.DocumentHandle) (models.ExtractionResult, error) {
	return a.extract(ctx, a.fast, models.TierFast, doc)
}

func (a *ExtractionAdapter) ExtractOCR(ctx context.Context, doc *models.DocumentHandle) (models.ExtractionResult, error) {
	return a.extract(ctx, a.ocr, models.TierOCR, doc)
}

func (a *ExtractionAdapter) extract(ctx context.Context, engine core.TextEngine, tier models.Tier, doc *models.DocumentHandle) (models.ExtractionResult, error) {
	if a.cfg.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.ExtractTimeout)
		defer cancel()
	}

	text, err := engine.Extract(ctx, doc.Path)
	if err != nil {
		return models.ExtractionResult{Tier: tier}, &core.ExtractionError{Kind: classifyExtraction(err), Tier: tier, Err: err}
	}
	return models.NewExtractionResult(text, tier, a.cfg.MinContentChars), nil
}

func classifyExtraction(err error) core.ExtractionErrorKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return core.ExtractionTimeout
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, core.ErrEngineUnavailable):
		return core.ExtractionEngineUnavailable
	default:
		return core.ExtractionMalformed
	}
}
