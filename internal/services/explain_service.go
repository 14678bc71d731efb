package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/markdave123-py/contexta-explain/internal/core"
	"github.com/markdave123-py/contexta-explain/internal/core/annotator"
	"github.com/markdave123-py/contexta-explain/internal/core/stream"
	"github.com/markdave123-py/contexta-explain/internal/models"
)

// Generic reasons for failures that do not come from the completion service.
const (
	reasonExtractionFailed = "Could not read this document"
	reasonInternal         = "Something went wrong, please try again"
)

type Options struct {
	MaxPromptChars int
	MaxMessageLen  int
}

// ExplainService runs a request through extraction, completion and
// annotation and streams the answer to a Sink.
type ExplainService struct {
	pipeline   core.TextPipeline
	completer  core.CompletionProvider
	dispatcher *stream.Dispatcher
	opts       Options
	logger     *zap.Logger
}

func NewExplainService(pipeline core.TextPipeline, completer core.CompletionProvider, dispatcher *stream.Dispatcher, opts Options, logger *zap.Logger) *ExplainService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExplainService{
		pipeline:   pipeline,
		completer:  completer,
		dispatcher: dispatcher,
		opts:       opts,
		logger:     logger,
	}
}

// ExplainMessage completes a chat message and streams the annotated answer.
// Only validation errors are returned; everything after the stream opens is
// reported on the stream itself.
func (s *ExplainService) ExplainMessage(ctx context.Context, req DirectMessageRequest, sink stream.Sink) error {
	if err := req.Validate(s.opts.MaxMessageLen); err != nil {
		return err
	}
	if err := sink.Open(); err != nil {
		return s.aborted(err)
	}

	prompt := BuildPrompt(req.Message, req.Raw, s.opts.MaxPromptChars)
	return s.completeAndStream(ctx, prompt, sink, s.logger.With(zap.Bool("raw", req.Raw)))
}

// ExplainDocument extracts the text of a staged upload and streams the
// explanation. core.ErrInsufficientContent is returned before anything is
// written to the sink. The handle is released on every path.
func (s *ExplainService) ExplainDocument(ctx context.Context, req DocumentUploadRequest, sink stream.Sink) error {
	if req.Handle != nil {
		defer func() {
			if err := req.Handle.Release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("failed to release document", zap.String("document_id", req.Handle.ID), zap.Error(err))
			}
		}()
	}
	if err := req.Validate(); err != nil {
		return err
	}
	log := s.logger.With(zap.String("document_id", req.Handle.ID))

	result, err := s.pipeline.Run(ctx, req.Handle)
	switch {
	case errors.Is(err, core.ErrInsufficientContent):
		return err
	case ctx.Err() != nil:
		return s.aborted(ctx.Err())
	case err != nil:
		log.Error("extraction pipeline failed", zap.Error(err))
		if oerr := sink.Open(); oerr != nil {
			return s.aborted(oerr)
		}
		return s.fail(sink, reasonExtractionFailed)
	}

	if err := sink.Open(); err != nil {
		return s.aborted(err)
	}
	log.Debug("explaining document", zap.String("tier", string(result.Tier)))

	prompt := BuildPrompt(result.Text, false, s.opts.MaxPromptChars)
	return s.completeAndStream(ctx, prompt, sink, log)
}

func (s *ExplainService) completeAndStream(ctx context.Context, prompt string, sink stream.Sink, log *zap.Logger) error {
	res, err := s.completer.Complete(ctx, models.CompletionRequest{Prompt: prompt})
	if err != nil {
		if ctx.Err() != nil {
			return s.aborted(ctx.Err())
		}
		var cerr *core.CompletionError
		if errors.As(err, &cerr) {
			log.Warn("completion failed", zap.String("kind", string(cerr.Kind)), zap.Error(err))
			return s.fail(sink, cerr.Reason())
		}
		log.Error("completion failed with unexpected error", zap.Error(err))
		return s.fail(sink, reasonInternal)
	}

	if err := s.dispatcher.Dispatch(ctx, sink, annotator.Annotate(res.Text)); err != nil {
		return s.aborted(err)
	}
	return nil
}

func (s *ExplainService) fail(sink stream.Sink, reason string) error {
	if err := s.dispatcher.Fail(sink, reason); err != nil {
		return s.aborted(err)
	}
	return nil
}

// aborted logs a lost client and swallows the error.
func (s *ExplainService) aborted(err error) error {
	s.logger.Debug("client went away", zap.Error(fmt.Errorf("%w: %w", core.ErrConnectionAborted, err)))
	return nil
}
