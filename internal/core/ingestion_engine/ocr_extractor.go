package ingestion_engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/contexta-explain/internal/core"
)

var _ core.TextEngine = (*OCREngine)(nil)

// pageRasterizer renders PDF pages as image files inside dir and returns
// their paths in page order.
type pageRasterizer interface {
	Rasterize(ctx context.Context, pdfPath, dir string, dpi, maxPages int) ([]string, error)
}

// pageRecognizer turns one page image into text.
type pageRecognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// OCREngine rasterizes a PDF and runs tesseract on every page.
// Page images live in a private temp dir removed before Extract returns.
type OCREngine struct {
	cfg        OCRConfig
	rasterizer pageRasterizer
	recognizer pageRecognizer
	logger     *zap.Logger
}

func NewOCREngine(cfg OCRConfig, logger *zap.Logger) *OCREngine {
	cfg = cfg.withDefaults()
	return &OCREngine{
		cfg:        cfg,
		rasterizer: fitzRasterizer{},
		recognizer: tesseractRecognizer{languages: cfg.Languages},
		logger:     logger,
	}
}

func (e *OCREngine) Extract(ctx context.Context, path string) (string, error) {
	dir, err := os.MkdirTemp("", "contexta-ocr-*")
	if err != nil {
		return "", fmt.Errorf("ocr: temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			e.logger.Warn("failed to remove ocr page images", zap.String("dir", dir), zap.Error(err))
		}
	}()

	pages, err := e.rasterizer.Rasterize(ctx, path, dir, e.cfg.DPI, e.cfg.MaxPages)
	if err != nil {
		return "", fmt.Errorf("ocr: rasterize: %w", err)
	}
	if len(pages) == 0 {
		return "", errors.New("ocr: no pages rendered")
	}

	texts := make([]string, len(pages))
	failed := make([]error, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for i, page := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			txt, err := e.recognizer.Recognize(gctx, page)
			if err != nil {
				// one unreadable page should not sink the document
				failed[i] = err
				return nil
			}
			texts[i] = strings.TrimSpace(txt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var b strings.Builder
	var ok int
	for i, txt := range texts {
		if failed[i] != nil {
			e.logger.Warn("ocr page failed", zap.Int("page", i+1), zap.Error(failed[i]))
			continue
		}
		ok++
		if txt == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(txt)
	}
	if ok == 0 {
		return "", fmt.Errorf("ocr: all %d pages failed: %w", len(pages), errors.Join(failed...))
	}
	return b.String(), nil
}

// fitzRasterizer renders pages with MuPDF through go-fitz and stores them
// as grayscale PNGs.
type fitzRasterizer struct{}

func (fitzRasterizer) Rasterize(ctx context.Context, pdfPath, dir string, dpi, maxPages int) ([]string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	n := doc.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.ImageDPI(i, float64(dpi))
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", i+1, err)
		}
		out := filepath.Join(dir, fmt.Sprintf("page-%03d.png", i+1))
		if err := imaging.Save(imaging.Grayscale(img), out); err != nil {
			return nil, fmt.Errorf("save page %d: %w", i+1, err)
		}
		paths = append(paths, out)
	}
	return paths, nil
}

// tesseractRecognizer uses a fresh gosseract client per page; clients are
// not safe for concurrent use.
type tesseractRecognizer struct {
	languages []string
}

func (r tesseractRecognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.languages...); err != nil {
		return "", fmt.Errorf("%w: tesseract language %v: %v", core.ErrEngineUnavailable, r.languages, err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("tesseract image: %w", err)
	}
	return client.Text()
}
