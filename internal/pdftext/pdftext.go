// Package pdftext turns a Cartão CNPJ PDF into plain text by shelling out to
// pdftotext (poppler). The core only ever sees the resulting text; image-only
// PDFs are out of scope and come back empty.
package pdftext

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Runner lets us stub the external command in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type Config struct {
	Pdftotext string        // binary name or absolute path; if empty -> "pdftotext"
	Timeout   time.Duration // 0 = no limit beyond ctx
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *zap.Logger
}

func NewExtractor(cfg Config, logger *zap.Logger) *Extractor {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// NewExtractorWithRunner is the test seam.
func NewExtractorWithRunner(cfg Config, r Runner, logger *zap.Logger) *Extractor {
	e := NewExtractor(cfg, logger)
	e.runner = r
	return e
}

// Extract runs pdftotext on path and returns the text with pages
// concatenated in order. pdftotext separates pages with form feeds, which
// are dropped so the anchor patterns can span page boundaries.
func (e *Extractor) Extract(ctx context.Context, path string) (text string, pages int, err error) {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		e.logger.Error("pdftotext failed",
			zap.String("path", path),
			zap.String("stderr", truncate(string(errb), 8<<10)),
			zap.Error(err),
		)
		return "", 0, fmt.Errorf("pdftotext: %w", err)
	}

	text = string(out)
	pages = 1 + strings.Count(text, "\f")
	text = strings.ReplaceAll(text, "\f", "\n")

	e.logger.Debug("pdftotext ok",
		zap.String("path", path),
		zap.Int("pages", pages),
		zap.Int("bytes", len(text)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return text, pages, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
