package core

import (
	"errors"
	"fmt"

	"github.com/markdave123-py/contexta-explain/internal/models"
)

var (
	// ErrInsufficientContent means no tier produced enough text to explain.
	ErrInsufficientContent = errors.New("document has insufficient text content")

	// ErrConnectionAborted means the client went away mid-stream.
	ErrConnectionAborted = errors.New("client connection aborted")

	// ErrEngineUnavailable lets engines flag a missing binary or library.
	ErrEngineUnavailable = errors.New("extraction engine unavailable")

	// ErrInvalidRequest is returned by request validation before any work starts.
	ErrInvalidRequest = errors.New("invalid request")
)

// ExtractionErrorKind classifies extraction engine failures.
type ExtractionErrorKind string

const (
	ExtractionEngineUnavailable ExtractionErrorKind = "engine_unavailable"
	ExtractionTimeout           ExtractionErrorKind = "timeout"
	ExtractionMalformed         ExtractionErrorKind = "malformed"
)

// ExtractionError is the normalized form of any engine failure.
type ExtractionError struct {
	Kind ExtractionErrorKind
	Tier models.Tier
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction failed (%s): %v", e.Tier, e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// CompletionErrorKind classifies completion service failures.
type CompletionErrorKind string

const (
	CompletionUnavailable     CompletionErrorKind = "unavailable"
	CompletionRateLimited     CompletionErrorKind = "rate_limited"
	CompletionInvalidResponse CompletionErrorKind = "invalid_response"
)

// CompletionError is the normalized form of any completion service failure.
type CompletionError struct {
	Kind CompletionErrorKind
	Err  error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion failed (%s): %v", e.Kind, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// Reason returns the client-facing text for a completion failure.
// It never includes upstream detail.
func (e *CompletionError) Reason() string {
	switch e.Kind {
	case CompletionRateLimited:
		return "The service is busy, please try again shortly"
	case CompletionInvalidResponse:
		return "Could not generate a response for this content"
	default:
		return "The explanation service is unavailable"
	}
}
