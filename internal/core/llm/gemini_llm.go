package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/markdave123-py/contexta-explain/internal/core"
	"github.com/markdave123-py/contexta-explain/internal/models"
)

var errEmptyResponse = errors.New("gemini returned no text")

// generator is the one call we make against the model; tests replace it.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type GeminiLLM struct {
	client    *genai.Client
	model     generator
	modelName string
	timeout   time.Duration
	logger    *zap.Logger
}

func NewGeminiLLM(ctx context.Context, apiKey, modelName string, timeout time.Duration, logger *zap.Logger) (*GeminiLLM, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiLLM{
		client:    cl,
		model:     cl.GenerativeModel(modelName),
		modelName: modelName,
		timeout:   timeout,
		logger:    logger,
	}, nil
}

func (g *GeminiLLM) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Complete sends one prompt and returns the whole answer.
// Every failure comes back as *core.CompletionError.
func (g *GeminiLLM) Complete(ctx context.Context, req models.CompletionRequest) (models.CompletionResult, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		cerr := &core.CompletionError{Kind: classifyCompletion(err), Err: fmt.Errorf("gemini generate: %w", err)}
		g.logger.Warn("completion failed",
			zap.String("model", g.modelName),
			zap.String("kind", string(cerr.Kind)),
			zap.Error(err))
		return models.CompletionResult{}, cerr
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return models.CompletionResult{}, &core.CompletionError{Kind: core.CompletionInvalidResponse, Err: errEmptyResponse}
	}

	g.logger.Debug("completion finished",
		zap.String("model", g.modelName),
		zap.Int("prompt_chars", len([]rune(req.Prompt))),
		zap.Int("answer_chars", len([]rune(text))),
		zap.Duration("elapsed", time.Since(start)))

	return models.CompletionResult{Text: text}, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

// classifyCompletion maps transport and API errors onto the completion taxonomy.
func classifyCompletion(err error) core.CompletionErrorKind {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return core.CompletionInvalidResponse
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return core.CompletionRateLimited
	}

	var httpCoded interface{ HTTPCode() int }
	if errors.As(err, &httpCoded) && httpCoded.HTTPCode() == http.StatusTooManyRequests {
		return core.CompletionRateLimited
	}

	switch status.Code(err) {
	case codes.ResourceExhausted:
		return core.CompletionRateLimited
	case codes.InvalidArgument, codes.FailedPrecondition:
		return core.CompletionInvalidResponse
	}
	return core.CompletionUnavailable
}

var _ core.CompletionProvider = (*GeminiLLM)(nil)
