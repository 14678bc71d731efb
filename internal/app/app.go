// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/markdave123-py/contexta-explain/internal/config"
	"github.com/markdave123-py/contexta-explain/internal/core"
	"github.com/markdave123-py/contexta-explain/internal/core/ingestion_engine"
	"github.com/markdave123-py/contexta-explain/internal/core/llm"
	objectclient "github.com/markdave123-py/contexta-explain/internal/core/object-client"
	"github.com/markdave123-py/contexta-explain/internal/core/stream"
	"github.com/markdave123-py/contexta-explain/internal/services"
)

type App struct {
	Logger    *zap.Logger
	Stager    core.Stager
	Completer *llm.GeminiLLM
	Explainer *services.ExplainService
	Server    *Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	stager, err := newStager(appCtx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("upload staging ready", zap.String("backend", cfg.StagingBackend), zap.String("dir", cfg.UploadDir))

	fast, err := newFastEngine(cfg.FastExtractor)
	if err != nil {
		return nil, err
	}
	ocr := ingestion_engine.NewOCREngine(ingestion_engine.OCRConfig{
		Languages:   cfg.OCRLanguages,
		DPI:         cfg.OCRDPI,
		MaxPages:    cfg.OCRMaxPages,
		Concurrency: cfg.OCRConcurrency,
	}, logger.Named("ocr"))

	ingCfg := &ingestion_engine.IngestConfig{
		OCRTriggerChars: cfg.OCRTriggerChars,
		MinContentChars: cfg.MinContentChars,
		ExtractTimeout:  cfg.ExtractTimeout,
	}
	adapter := ingestion_engine.NewExtractionAdapter(fast, ocr, ingCfg)
	pipeline := ingestion_engine.NewPipeline(adapter, ingCfg, logger.Named("pipeline"))
	logger.Info("extraction pipeline ready",
		zap.String("fast_extractor", cfg.FastExtractor),
		zap.Strings("ocr_languages", cfg.OCRLanguages))

	completer, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel, cfg.CompletionTimeout, logger.Named("llm"))
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the completion client, %w", err)
	}

	explainer := services.NewExplainService(
		pipeline,
		completer,
		stream.NewDispatcher(cfg.StreamDelay),
		services.Options{MaxPromptChars: cfg.MaxPromptChars, MaxMessageLen: cfg.MaxMessageLen},
		logger.Named("explain"),
	)

	server := NewServer(cfg, explainer, stager, logger)

	return &App{
		Logger:    logger,
		Stager:    stager,
		Completer: completer,
		Explainer: explainer,
		Server:    server,
	}, nil
}

func (a *App) Close() {
	if a.Completer != nil {
		if err := a.Completer.Close(); err != nil {
			a.Logger.Warn("closing completion client", zap.Error(err))
		}
	}
	_ = a.Logger.Sync()
}

func newStager(ctx context.Context, cfg *config.Config, logger *zap.Logger) (core.Stager, error) {
	switch cfg.StagingBackend {
	case "s3":
		objClient, err := objectclient.NewS3Client(ctx, cfg, logger.Named("s3"))
		if err != nil {
			return nil, err
		}
		s3Stager, err := objectclient.NewS3Stager(objClient, cfg.BucketName, cfg.UploadDir, logger.Named("staging"))
		if err != nil {
			return nil, err
		}
		return s3Stager, nil
	default:
		localStager, err := objectclient.NewLocalStager(cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		return localStager, nil
	}
}

func newFastEngine(name string) (core.TextEngine, error) {
	switch name {
	case "docconv", "":
		useReadability := false
		return ingestion_engine.NewDocconvEngine(useReadability), nil
	case "pdf":
		return ingestion_engine.NewPlainPDFEngine(), nil
	default:
		return nil, fmt.Errorf("unknown fast extractor %q", name)
	}
}
