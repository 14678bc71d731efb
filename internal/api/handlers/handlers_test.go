package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/markdave123-py/contexta-explain/internal/core"
	"github.com/markdave123-py/contexta-explain/internal/core/stream"
	"github.com/markdave123-py/contexta-explain/internal/models"
	"github.com/markdave123-py/contexta-explain/internal/services"
)

// fakeExplainer echoes the request back as a single-frame stream.
type fakeExplainer struct {
	msgReq services.DirectMessageRequest
	docReq services.DocumentUploadRequest
	docErr error
}

func (f *fakeExplainer) ExplainMessage(ctx context.Context, req services.DirectMessageRequest, sink stream.Sink) error {
	f.msgReq = req
	if err := req.Validate(100); err != nil {
		return err
	}
	_ = sink.Open()
	_ = sink.Data(req.Message)
	return sink.Done()
}

func (f *fakeExplainer) ExplainDocument(ctx context.Context, req services.DocumentUploadRequest, sink stream.Sink) error {
	f.docReq = req
	defer req.Handle.Release(ctx)
	if f.docErr != nil {
		return f.docErr
	}
	_ = sink.Open()
	_ = sink.Data(req.Handle.FileName)
	return sink.Done()
}

type fakeStager struct {
	data     []byte
	err      error
	released bool
}

func (s *fakeStager) Stage(ctx context.Context, fileName string, data io.Reader) (*models.DocumentHandle, error) {
	if s.err != nil {
		return nil, s.err
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}
	s.data = b
	return models.NewDocumentHandle("doc-1", fileName, "/staged/doc-1.pdf", func(context.Context) error {
		s.released = true
		return nil
	}), nil
}

func multipartUpload(t *testing.T, field, name string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents/explain", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestChat_GetUsesTemplate(t *testing.T) {
	ex := &fakeExplainer{}
	h := NewChatHandler(ex, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ExplainMessage(rec, httptest.NewRequest(http.MethodGet, "/api/chat?message=what+is+x", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "data: what is x\n\nevent: done\ndata: [DONE]\n\n", rec.Body.String())
	assert.False(t, ex.msgReq.Raw)
}

func TestChat_PostIsRaw(t *testing.T) {
	ex := &fakeExplainer{}
	h := NewChatHandler(ex, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Chat(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hello"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ex.msgReq.Raw)
	assert.Equal(t, "hello", ex.msgReq.Message)
}

func TestChat_BadRequests(t *testing.T) {
	h := NewChatHandler(&fakeExplainer{}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Chat(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{not json`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ExplainMessage(rec, httptest.NewRequest(http.MethodGet, "/api/chat", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "message is required")
}

func TestDocument_StreamsExplanation(t *testing.T) {
	ex := &fakeExplainer{}
	st := &fakeStager{}
	h := NewDocumentHandler(ex, st, 1, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ExplainDocument(rec, multipartUpload(t, "file", "report.pdf", []byte("%PDF-1.7\ncontent")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "data: report.pdf\n\nevent: done\ndata: [DONE]\n\n", rec.Body.String())
	assert.Equal(t, "%PDF-1.7\ncontent", string(st.data))
	assert.True(t, st.released)
}

func TestDocument_AcceptsPDFField(t *testing.T) {
	st := &fakeStager{}
	h := NewDocumentHandler(&fakeExplainer{}, st, 1, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ExplainDocument(rec, multipartUpload(t, "pdf", "legacy.pdf", []byte("%PDF-1.4")))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDocument_Insufficient(t *testing.T) {
	st := &fakeStager{}
	h := NewDocumentHandler(&fakeExplainer{docErr: core.ErrInsufficientContent}, st, 1, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ExplainDocument(rec, multipartUpload(t, "file", "scan.pdf", []byte("%PDF-1.4")))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"explanation":"PDF is empty or unreadable."}`, rec.Body.String())
	assert.True(t, st.released)
}

func TestDocument_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		req    func(t *testing.T) *http.Request
		stager *fakeStager
		want   int
	}{
		{"missing file", func(t *testing.T) *http.Request { return multipartUpload(t, "", "", nil) }, &fakeStager{}, http.StatusBadRequest},
		{"not multipart", func(t *testing.T) *http.Request {
			return httptest.NewRequest(http.MethodPost, "/api/documents/explain", strings.NewReader("x"))
		}, &fakeStager{}, http.StatusBadRequest},
		{"not a pdf", func(t *testing.T) *http.Request { return multipartUpload(t, "file", "a.pdf", []byte("PK\x03\x04zip")) }, &fakeStager{}, http.StatusUnsupportedMediaType},
		{"empty file", func(t *testing.T) *http.Request { return multipartUpload(t, "file", "a.pdf", nil) }, &fakeStager{}, http.StatusUnsupportedMediaType},
		{"staging fails", func(t *testing.T) *http.Request { return multipartUpload(t, "file", "a.pdf", []byte("%PDF-1.4")) }, &fakeStager{err: errors.New("disk full")}, http.StatusInternalServerError},
		{"too large", func(t *testing.T) *http.Request {
			return multipartUpload(t, "file", "big.pdf", append([]byte("%PDF-"), make([]byte, 2<<20)...))
		}, &fakeStager{}, http.StatusRequestEntityTooLarge},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewDocumentHandler(&fakeExplainer{}, tc.stager, 1, zap.NewNop())
			rec := httptest.NewRecorder()
			h.ExplainDocument(rec, tc.req(t))
			assert.Equal(t, tc.want, rec.Code)
			assert.NotContains(t, rec.Body.String(), "disk full")
		})
	}
}
