package ingestion_engine

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"code.sajari.com/docconv"

	"github.com/markdave123-py/contexta-explain/internal/core"
)

var _ core.TextEngine = (*DocconvEngine)(nil)

// DocconvEngine is the fast structural extractor backed by sajari/docconv
// (pdftotext under the hood).
type DocconvEngine struct {
	useReadability bool
}

func NewDocconvEngine(useReadability bool) *DocconvEngine {
	return &DocconvEngine{useReadability: useReadability}
}

// Extract converts the PDF at path to plain text.
func (e *DocconvEngine) Extract(ctx context.Context, path string) (string, error) {
	// docconv formats exec failures with %v, so check the binary up front.
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return "", fmt.Errorf("docconv: %w: %v", core.ErrEngineUnavailable, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("docconv: open %s: %w", path, err)
	}
	defer f.Close()

	type result struct {
		res *docconv.Response
		err error
	}
	done := make(chan result, 1)
	go func() {
		res, err := docconv.Convert(f, "application/pdf", e.useReadability)
		done <- result{res, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("docconv: %w", r.err)
		}
		return strings.TrimSpace(r.res.Body), nil
	}
}
