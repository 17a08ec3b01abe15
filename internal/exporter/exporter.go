package exporter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/wiki-scraper/internal/metrics"
	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

// Sink persists a rendered document at path.
type Sink interface {
	Write(path string, doc Document) error
}

// Exporter renders records and hands them to a Sink.
type Exporter struct {
	sink   Sink
	logger *zap.Logger
}

// New builds an Exporter. A nil sink selects PDFSink.
func New(sink Sink, logger *zap.Logger) *Exporter {
	if sink == nil {
		sink = PDFSink{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{sink: sink, logger: logger}
}

// Export renders rec and writes it to path. Every failure is a *wiki.ExportError.
func (e *Exporter) Export(ctx context.Context, rec wiki.ArticleRecord, path string) error {
	if err := ctx.Err(); err != nil {
		return &wiki.ExportError{Path: path, Err: err}
	}
	start := time.Now()
	doc := Render(rec)
	if err := e.sink.Write(path, doc); err != nil {
		e.logger.Error("export failed", zap.String("path", path), zap.String("title", rec.Title), zap.Error(err))
		var exportErr *wiki.ExportError
		if errors.As(err, &exportErr) {
			return err
		}
		return &wiki.ExportError{Path: path, Err: fmt.Errorf("write document: %w", err)}
	}
	metrics.ObserveExport(time.Since(start))
	e.logger.Info("exported article",
		zap.String("path", path),
		zap.String("title", rec.Title),
		zap.Int("blocks", len(doc)),
	)
	return nil
}
