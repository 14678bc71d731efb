package stream

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/markdave123-py/contexta-explain/internal/models"
)

// ErrStreamClosed is returned once a terminal frame has been written.
var ErrStreamClosed = errors.New("stream already terminated")

// Sink receives the frames of one explanation stream.
type Sink interface {
	Open() error
	Data(unit string) error
	Done() error
	Error(reason string) error
}

// EventWriter writes text/event-stream frames to w. When w is an
// http.ResponseWriter the headers are set on Open and every frame is
// flushed as it is written.
type EventWriter struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
}

func NewEventWriter(w io.Writer) *EventWriter {
	return &EventWriter{w: w}
}

// Open commits the event-stream headers.
func (e *EventWriter) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if rw, ok := e.w.(http.ResponseWriter); ok {
		h := rw.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		rw.WriteHeader(http.StatusOK)
	}
	e.flush()
	return nil
}

func (e *EventWriter) Data(unit string) error {
	return e.write(models.StreamEvent{Kind: models.EventData, Data: singleLine(unit)})
}

func (e *EventWriter) Done() error {
	return e.write(models.StreamEvent{Kind: models.EventDone})
}

func (e *EventWriter) Error(reason string) error {
	return e.write(models.StreamEvent{Kind: models.EventError, Data: singleLine(reason)})
}

func (e *EventWriter) write(ev models.StreamEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrStreamClosed
	}
	if ev.Terminal() {
		e.closed = true
	}
	if _, err := io.WriteString(e.w, ev.Frame()); err != nil {
		return err
	}
	e.flush()
	return nil
}

func (e *EventWriter) flush() {
	if f, ok := e.w.(http.Flusher); ok {
		f.Flush()
	}
}

// singleLine keeps a payload inside one data: line.
func singleLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}

var _ Sink = (*EventWriter)(nil)
