package handlers

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/markdave123-py/contexta-explain/internal/core"
	"github.com/markdave123-py/contexta-explain/internal/core/stream"
	"github.com/markdave123-py/contexta-explain/internal/services"
)

const insufficientContentMessage = "PDF is empty or unreadable."

var pdfMagic = []byte("%PDF-")

type DocumentHandler struct {
	explainer Explainer
	stager    core.Stager
	maxBytes  int64
	logger    *zap.Logger
}

func NewDocumentHandler(explainer Explainer, stager core.Stager, maxUploadMB int, logger *zap.Logger) *DocumentHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 32
	}
	return &DocumentHandler{
		explainer: explainer,
		stager:    stager,
		maxBytes:  int64(maxUploadMB) << 20,
		logger:    logger,
	}
}

// ExplainDocument stages one uploaded PDF and streams its explanation.
func (h *DocumentHandler) ExplainDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := formFile(r, "file", "pdf")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	head := make([]byte, len(pdfMagic))
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}
	head = head[:n]
	if !bytes.Equal(head, pdfMagic) {
		writeError(w, http.StatusUnsupportedMediaType, "only PDF files are supported")
		return
	}

	name := filepath.Base(header.Filename)
	handle, err := h.stager.Stage(r.Context(), name, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		h.logger.Error("staging upload failed", zap.String("file_name", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}

	err = h.explainer.ExplainDocument(r.Context(), services.DocumentUploadRequest{Handle: handle}, stream.NewEventWriter(w))
	switch {
	case err == nil:
	case errors.Is(err, core.ErrInsufficientContent):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"explanation": insufficientContentMessage})
	case errors.Is(err, core.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("explain document failed", zap.String("document_id", handle.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// formFile returns the first file found under any of keys.
func formFile(r *http.Request, keys ...string) (multipart.File, *multipart.FileHeader, error) {
	for _, k := range keys {
		f, hdr, err := r.FormFile(k)
		if err == nil {
			return f, hdr, nil
		}
		if !errors.Is(err, http.ErrMissingFile) {
			return nil, nil, err
		}
	}
	return nil, nil, http.ErrMissingFile
}

// isTooLarge detects the MaxBytesReader limit; mime/multipart does not
// always keep the error chain.
func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}
