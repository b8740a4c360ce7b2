package export

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umarkabirdananini/portal/internal/platform/metrics"
	"github.com/umarkabirdananini/portal/internal/slip"
)

// fakeCapturer returns a canned raster, or an error, and remembers the
// document it was asked to capture.
type fakeCapturer struct {
	img      image.Image
	err      error
	captured string
}

func (f *fakeCapturer) Capture(_ context.Context, html string) (image.Image, error) {
	f.captured = html
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

func newExportService(capturer Capturer) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(capturer, logger, metrics.New(prometheus.NewRegistry()))
}

func TestExportPDF(t *testing.T) {
	capturer := &fakeCapturer{img: rowImage(testWidthPx, 3000)}
	svc := newExportService(capturer)

	rendered := slip.RenderedSlip{
		HTML:      `<div class="slip-body">Ada Bello</div>`,
		Reference: "SRC-2024-001",
	}
	artifact, err := svc.ExportPDF(context.Background(), rendered)
	require.NoError(t, err)

	assert.Equal(t, "Selection_Slip_SRC-2024-001.pdf", artifact.Filename)
	assert.Equal(t, 3, artifact.Pages)
	assert.Equal(t, "%PDF", string(artifact.PDF[:4]))

	// The capturer is handed a standalone document wrapping the slip markup.
	assert.Contains(t, capturer.captured, "<!DOCTYPE html>")
	assert.Contains(t, capturer.captured, rendered.HTML)
}

func TestExportPDF_CaptureFailure(t *testing.T) {
	t.Run("capture errors surface as ErrCaptureFailed", func(t *testing.T) {
		svc := newExportService(&fakeCapturer{err: errors.New("embedded image unreachable")})

		_, err := svc.ExportPDF(context.Background(), slip.RenderedSlip{Reference: "A"})
		assert.ErrorIs(t, err, ErrCaptureFailed)
	})

	t.Run("already-wrapped capture errors pass through", func(t *testing.T) {
		svc := newExportService(&fakeCapturer{err: ErrCaptureFailed})

		_, err := svc.ExportPDF(context.Background(), slip.RenderedSlip{Reference: "A"})
		assert.ErrorIs(t, err, ErrCaptureFailed)
	})
}
