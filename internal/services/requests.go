package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/markdave123-py/contexta-explain/internal/core"
	"github.com/markdave123-py/contexta-explain/internal/models"
)

// DirectMessageRequest is a chat message explained without a document.
// Raw sends the message as-is instead of wrapping it in the explain template.
type DirectMessageRequest struct {
	Message string `json:"message"`
	Raw     bool   `json:"-"`
}

// Validate rejects blank messages and messages longer than maxChars runes.
// A maxChars of zero disables the length check.
func (r DirectMessageRequest) Validate(maxChars int) error {
	if strings.TrimSpace(r.Message) == "" {
		return fmt.Errorf("%w: message is required", core.ErrInvalidRequest)
	}
	if maxChars > 0 && utf8.RuneCountInString(r.Message) > maxChars {
		return fmt.Errorf("%w: message exceeds %d characters", core.ErrInvalidRequest, maxChars)
	}
	return nil
}

// DocumentUploadRequest carries one staged upload.
type DocumentUploadRequest struct {
	Handle *models.DocumentHandle
}

func (r DocumentUploadRequest) Validate() error {
	if r.Handle == nil {
		return fmt.Errorf("%w: document is required", core.ErrInvalidRequest)
	}
	if r.Handle.Path == "" {
		return fmt.Errorf("%w: document %s was not staged", core.ErrInvalidRequest, r.Handle.ID)
	}
	return nil
}
