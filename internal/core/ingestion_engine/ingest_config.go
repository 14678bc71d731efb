package ingestion_engine

import "time"

// IngestConfig tunes the tiered extraction pipeline.
//
// OCRTriggerChars: fast results below this many non-whitespace runes escalate to OCR (20).
// MinContentChars: the chosen result needs at least this many to be explained (10).
// ExtractTimeout:  upper bound on a single engine call; 0 disables it.
type IngestConfig struct {
	OCRTriggerChars int
	MinContentChars int
	ExtractTimeout  time.Duration
}

// DefaultIngestConfig returns the thresholds the service ships with.
func DefaultIngestConfig() *IngestConfig {
	return &IngestConfig{
		OCRTriggerChars: 20,
		MinContentChars: 10,
		ExtractTimeout:  2 * time.Minute,
	}
}

// OCRConfig tunes page rasterization and recognition.
//
// Languages:   tesseract language codes, e.g. {"eng"} or {"ara", "eng"}.
// DPI:         rasterization density.
// MaxPages:    only the first MaxPages pages are recognized; 0 means all.
// Concurrency: pages recognized in parallel.
type OCRConfig struct {
	Languages   []string
	DPI         int
	MaxPages    int
	Concurrency int
}

func (c OCRConfig) withDefaults() OCRConfig {
	if len(c.Languages) == 0 {
		c.Languages = []string{"eng"}
	}
	if c.DPI <= 0 {
		c.DPI = 150
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	return c
}
