package models

import (
	"context"
	"strings"
	"sync"
)

// DocumentHandle is a staged upload owned by a single request.
// The artifact is deleted on the first Release; later calls are no-ops
// that return the first result.
type DocumentHandle struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	Path     string `json:"-"` // local path handed to the extraction engines

	release func(ctx context.Context) error
	once    sync.Once
	err     error
}

// NewDocumentHandle wires a staged artifact to the function that deletes it.
func NewDocumentHandle(id, fileName, path string, release func(ctx context.Context) error) *DocumentHandle {
	return &DocumentHandle{ID: id, FileName: fileName, Path: path, release: release}
}

// Release deletes the staged artifact at most once.
func (h *DocumentHandle) Release(ctx context.Context) error {
	h.once.Do(func() {
		if h.release != nil {
			h.err = h.release(ctx)
		}
	})
	return h.err
}

// Tier names the extraction engine that produced a result.
type Tier string

const (
	TierFast Tier = "fast"
	TierOCR  Tier = "ocr"
)

// ExtractionResult is the immutable outcome of one extraction attempt.
type ExtractionResult struct {
	Text       string `json:"text"`
	Tier       Tier   `json:"tier"`
	Sufficient bool   `json:"sufficient"`
}

// NewExtractionResult scores text against the minimum-content threshold.
func NewExtractionResult(text string, tier Tier, minContent int) ExtractionResult {
	return ExtractionResult{
		Text:       text,
		Tier:       tier,
		Sufficient: text != "" && ContentLength(text) >= minContent,
	}
}

// ContentLength counts non-whitespace runes.
func ContentLength(s string) int {
	n := 0
	for _, f := range strings.Fields(s) {
		n += len([]rune(f))
	}
	return n
}

// CompletionRequest is the single prompt sent to the completion service.
type CompletionRequest struct {
	Prompt string `json:"prompt"`
}

// CompletionResult is the full, non-streamed answer.
type CompletionResult struct {
	Text string `json:"text"`
}

// EventKind tags a StreamEvent.
type EventKind int

const (
	EventData EventKind = iota
	EventDone
	EventError
)

// StreamEvent is one frame of the outgoing event stream.
type StreamEvent struct {
	Kind EventKind
	Data string // unit for EventData, reason for EventError
}

// Terminal reports whether the event closes the stream.
func (e StreamEvent) Terminal() bool {
	return e.Kind == EventDone || e.Kind == EventError
}

// Frame renders the event in text/event-stream wire format.
func (e StreamEvent) Frame() string {
	switch e.Kind {
	case EventDone:
		return "event: done\ndata: [DONE]\n\n"
	case EventError:
		return "event: error\ndata: " + e.Data + "\n\n"
	default:
		return "data: " + e.Data + "\n\n"
	}
}
