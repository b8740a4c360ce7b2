package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/umarkabirdananini/portal/internal/platform/metrics"
	"github.com/umarkabirdananini/portal/internal/slip"
)

// Artifact is an assembled, downloadable export.
type Artifact struct {
	Filename string
	PDF      []byte
	Pages    int
}

// Service runs the two-stage export pipeline: capture the slip's visual
// state, then paginate and assemble the document. The geometric slicing is
// pure (see Layout) so only the capture stage touches a rendering surface.
type Service struct {
	logger   *slog.Logger
	capturer Capturer
	metrics  *metrics.Metrics
	page     PageSpec
}

// NewService wires the export pipeline against a capturer.
func NewService(capturer Capturer, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		logger:   logger,
		capturer: capturer,
		metrics:  m,
		page:     A4Portrait,
	}
}

// ExportPDF captures the rendered slip and assembles the paginated PDF.
// Capture failures surface as ErrCaptureFailed; no partial artifact is ever
// produced.
func (s *Service) ExportPDF(ctx context.Context, sl slip.RenderedSlip) (Artifact, error) {
	start := time.Now()

	img, err := s.capturer.Capture(ctx, printableDocument(sl.HTML))
	if err != nil {
		s.metrics.Exports.WithLabelValues("pdf", "capture_failed").Inc()
		if errors.Is(err, ErrCaptureFailed) {
			return Artifact{}, err
		}
		return Artifact{}, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}

	bounds := img.Bounds()
	plan, err := Layout(bounds.Dx(), bounds.Dy(), s.page)
	if err != nil {
		s.metrics.Exports.WithLabelValues("pdf", "failed").Inc()
		return Artifact{}, err
	}
	pdf, err := Assemble(img, plan)
	if err != nil {
		s.metrics.Exports.WithLabelValues("pdf", "failed").Inc()
		return Artifact{}, err
	}

	s.metrics.Exports.WithLabelValues("pdf", "ok").Inc()
	s.metrics.ExportDuration.Observe(time.Since(start).Seconds())
	s.logger.InfoContext(ctx, "slip exported",
		"reference", sl.Reference,
		"pages", plan.Pages(),
		"bytes", len(pdf),
	)
	return Artifact{
		Filename: Filename(sl.Reference),
		PDF:      pdf,
		Pages:    plan.Pages(),
	}, nil
}

// printableDocument wraps slip markup into a standalone document sized to the
// capture viewport.
func printableDocument(slipHTML string) string {
	return `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { margin: 0; width: 794px; font-family: Arial, Helvetica, sans-serif; background: #fff; }
</style>
</head>
<body>` + slipHTML + `</body>
</html>`
}
