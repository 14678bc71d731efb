package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/markdave123-py/contexta-explain/internal/core"
	"github.com/markdave123-py/contexta-explain/internal/core/stream"
	"github.com/markdave123-py/contexta-explain/internal/services"
)

type ChatHandler struct {
	explainer Explainer
	logger    *zap.Logger
}

func NewChatHandler(explainer Explainer, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{explainer: explainer, logger: logger}
}

type ChatRequest struct {
	Message string `json:"message"`
}

// ExplainMessage streams an explanation of ?message=... using the explain template.
func (h *ChatHandler) ExplainMessage(w http.ResponseWriter, r *http.Request) {
	req := services.DirectMessageRequest{Message: r.URL.Query().Get("message")}
	h.serve(w, r, req)
}

// Chat streams the answer to a raw JSON message.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var body ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.serve(w, r, services.DirectMessageRequest{Message: body.Message, Raw: true})
}

func (h *ChatHandler) serve(w http.ResponseWriter, r *http.Request, req services.DirectMessageRequest) {
	err := h.explainer.ExplainMessage(r.Context(), req, stream.NewEventWriter(w))
	switch {
	case err == nil:
	case errors.Is(err, core.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("explain message failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
