package ingestion_engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/markdave123-py/contexta-explain/internal/core"
	"github.com/markdave123-py/contexta-explain/internal/models"
)

var _ core.TextPipeline = (*Pipeline)(nil)

// Pipeline runs the fast tier, escalates to OCR when the fast text is too
// thin, and always releases the document before returning.
type Pipeline struct {
	extractor core.DocumentExtractor
	cfg       *IngestConfig
	logger    *zap.Logger
}

func NewPipeline(extractor core.DocumentExtractor, cfg *IngestConfig, logger *zap.Logger) *Pipeline {
	if cfg == nil {
		cfg = DefaultIngestConfig()
	}
	return &Pipeline{extractor: extractor, cfg: cfg, logger: logger}
}

// Run returns the chosen result or core.ErrInsufficientContent.
func (p *Pipeline) Run(ctx context.Context, doc *models.DocumentHandle) (models.ExtractionResult, error) {
	log := p.logger.With(zap.String("document_id", doc.ID), zap.String("file_name", doc.FileName))
	start := time.Now()

	defer func() {
		if err := doc.Release(context.WithoutCancel(ctx)); err != nil {
			log.Warn("failed to delete staged document", zap.Error(err))
		}
	}()

	chosen, err := p.extractor.ExtractFast(ctx, doc)
	if err != nil {
		log.Warn("fast extraction failed, treating as empty", zap.Error(err))
		chosen = models.ExtractionResult{Tier: models.TierFast}
	}
	log.Debug("fast extraction finished", zap.Int("chars", models.ContentLength(chosen.Text)))

	if models.ContentLength(chosen.Text) < p.cfg.OCRTriggerChars {
		log.Info("fast extraction too thin, falling back to ocr",
			zap.Int("chars", models.ContentLength(chosen.Text)),
			zap.Int("threshold", p.cfg.OCRTriggerChars))

		chosen, err = p.extractor.ExtractOCR(ctx, doc)
		if err != nil {
			log.Warn("ocr extraction failed", zap.Error(err))
			chosen = models.ExtractionResult{Tier: models.TierOCR}
		}
	}

	if err := ctx.Err(); err != nil {
		return models.ExtractionResult{}, fmt.Errorf("extraction interrupted: %w", err)
	}

	n := models.ContentLength(chosen.Text)
	if n < p.cfg.MinContentChars {
		log.Info("document has insufficient content",
			zap.String("tier", string(chosen.Tier)), zap.Int("chars", n))
		return models.ExtractionResult{}, core.ErrInsufficientContent
	}

	log.Info("document text extracted",
		zap.String("tier", string(chosen.Tier)),
		zap.Int("chars", n),
		zap.Duration("elapsed", time.Since(start)))

	return models.NewExtractionResult(chosen.Text, chosen.Tier, p.cfg.MinContentChars), nil
}
