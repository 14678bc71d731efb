package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/markdave123-py/contexta-explain/internal/core"
	"github.com/markdave123-py/contexta-explain/internal/models"
)

type fakeGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	prompt string
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if len(parts) > 0 {
		if t, ok := parts[0].(genai.Text); ok {
			f.prompt = string(t)
		}
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func newTestLLM(gen generator) *GeminiLLM {
	return &GeminiLLM{model: gen, modelName: "test-model", logger: zap.NewNop()}
}

func TestComplete_ReturnsText(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("Hello ", "world")}
	res, err := newTestLLM(gen).Complete(context.Background(), models.CompletionRequest{Prompt: "Please explain this content:\n\nx"})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", res.Text)
	assert.Equal(t, "Please explain this content:\n\nx", gen.prompt)
}

func TestComplete_EmptyAnswerIsInvalid(t *testing.T) {
	for name, resp := range map[string]*genai.GenerateContentResponse{
		"nil response":  nil,
		"no candidates": {},
		"blank text":    textResponse("  \n"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := newTestLLM(&fakeGenerator{resp: resp}).Complete(context.Background(), models.CompletionRequest{Prompt: "p"})
			var cerr *core.CompletionError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, core.CompletionInvalidResponse, cerr.Kind)
		})
	}
}

func TestComplete_NormalizesErrors(t *testing.T) {
	upstream := &googleapi.Error{Code: http.StatusTooManyRequests, Message: "quota exceeded for project 1234"}
	_, err := newTestLLM(&fakeGenerator{err: upstream}).Complete(context.Background(), models.CompletionRequest{Prompt: "p"})

	var cerr *core.CompletionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, core.CompletionRateLimited, cerr.Kind)
	assert.NotContains(t, cerr.Reason(), "1234")
}

func TestClassifyCompletion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want core.CompletionErrorKind
	}{
		{"blocked", &genai.BlockedError{}, core.CompletionInvalidResponse},
		{"googleapi 429", &googleapi.Error{Code: http.StatusTooManyRequests}, core.CompletionRateLimited},
		{"googleapi 500", &googleapi.Error{Code: http.StatusInternalServerError}, core.CompletionUnavailable},
		{"grpc exhausted", status.Error(codes.ResourceExhausted, "quota"), core.CompletionRateLimited},
		{"wrapped grpc exhausted", fmt.Errorf("gemini: %w", status.Error(codes.ResourceExhausted, "quota")), core.CompletionRateLimited},
		{"grpc invalid argument", status.Error(codes.InvalidArgument, "bad"), core.CompletionInvalidResponse},
		{"grpc unavailable", status.Error(codes.Unavailable, "down"), core.CompletionUnavailable},
		{"deadline", context.DeadlineExceeded, core.CompletionUnavailable},
		{"plain", errors.New("dial tcp: connection refused"), core.CompletionUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifyCompletion(tc.err))
		})
	}
}
