package models

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentLength(t *testing.T) {
	assert.Equal(t, 0, ContentLength(""))
	assert.Equal(t, 0, ContentLength(" \n\t"))
	assert.Equal(t, 10, ContentLength("hello \n world"))
	assert.Equal(t, 3, ContentLength("é ü ß"))
}

func TestNewExtractionResult(t *testing.T) {
	assert.True(t, NewExtractionResult("0123456789", TierFast, 10).Sufficient)
	assert.False(t, NewExtractionResult("012345678", TierFast, 10).Sufficient)
	assert.False(t, NewExtractionResult("", TierOCR, 0).Sufficient)
}

func TestDocumentHandle_ReleaseOnce(t *testing.T) {
	calls := 0
	h := NewDocumentHandle("id", "f.pdf", "/tmp/f.pdf", func(context.Context) error {
		calls++
		return errors.New("gone")
	})

	assert.EqualError(t, h.Release(context.Background()), "gone")
	assert.EqualError(t, h.Release(context.Background()), "gone")
	assert.Equal(t, 1, calls)

	assert.NoError(t, NewDocumentHandle("id", "f", "p", nil).Release(context.Background()))
}

func TestStreamEventFrame(t *testing.T) {
	assert.Equal(t, "data: word\n\n", StreamEvent{Kind: EventData, Data: "word"}.Frame())
	assert.Equal(t, "event: done\ndata: [DONE]\n\n", StreamEvent{Kind: EventDone}.Frame())
	assert.Equal(t, "event: error\ndata: busy\n\n", StreamEvent{Kind: EventError, Data: "busy"}.Frame())
	assert.False(t, StreamEvent{Kind: EventData}.Terminal())
	assert.True(t, StreamEvent{Kind: EventDone}.Terminal())
	assert.True(t, StreamEvent{Kind: EventError}.Terminal())
}
