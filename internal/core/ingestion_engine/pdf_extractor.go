package ingestion_engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/markdave123-py/contexta-explain/internal/core"
)

var _ core.TextEngine = (*PlainPDFEngine)(nil)

// PlainPDFEngine is a pure-Go fast extractor built on ledongthuc/pdf.
// It needs no external binaries.
type PlainPDFEngine struct{}

func NewPlainPDFEngine() *PlainPDFEngine {
	return &PlainPDFEngine{}
}

// Extract reads text page by page, skipping unreadable pages.
func (e *PlainPDFEngine) Extract(ctx context.Context, path string) (text string, err error) {
	// ledongthuc/pdf panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf: malformed document: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("pdf: open: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if pageText = strings.TrimSpace(pageText); pageText == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}
