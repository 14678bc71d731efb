package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/markdave123-py/contexta-explain/internal/core/stream"
	"github.com/markdave123-py/contexta-explain/internal/services"
)

// Explainer is what the handlers need from the orchestrator.
type Explainer interface {
	ExplainMessage(ctx context.Context, req services.DirectMessageRequest, sink stream.Sink) error
	ExplainDocument(ctx context.Context, req services.DocumentUploadRequest, sink stream.Sink) error
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
