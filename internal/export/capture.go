package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// ErrCaptureFailed marks a rasterization failure. Exports abort on it with a
// user-visible error rather than emitting a blank or partial document.
var ErrCaptureFailed = errors.New("capture failed")

// Capturer produces a raster of a slip document's visual rendering.
type Capturer interface {
	Capture(ctx context.Context, html string) (image.Image, error)
}

// captureViewportWidth is the CSS pixel width the slip is laid out at before
// scaling. 794px matches A4 width at 96dpi.
const captureViewportWidth = 794

// ChromeCapturer materializes slip markup in a headless browser and takes a
// full-page screenshot at a fixed device scale. Each capture launches its own
// page, so overlapping exports never share raster state.
type ChromeCapturer struct {
	bin    string // browser binary; empty lets the launcher resolve one
	scale  float64
	logger *slog.Logger
}

// NewChromeCapturer builds a capturer. scale values below 1 are coerced to 1.
func NewChromeCapturer(bin string, scale float64, logger *slog.Logger) *ChromeCapturer {
	if scale < 1 {
		scale = 1
	}
	return &ChromeCapturer{bin: bin, scale: scale, logger: logger}
}

// Capture renders the document and screenshots the full page as a PNG
// raster. Every failure is reported as ErrCaptureFailed with the underlying
// cause attached.
func (c *ChromeCapturer) Capture(ctx context.Context, html string) (image.Image, error) {
	l := launcher.New().Headless(true)
	if c.bin != "" {
		l = l.Bin(c.bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: launch browser: %v", ErrCaptureFailed, err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: connect browser: %v", ErrCaptureFailed, err)
	}
	defer func() {
		if cerr := browser.Close(); cerr != nil {
			c.logger.Warn("browser close failed", "error", cerr)
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: open page: %v", ErrCaptureFailed, err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             captureViewportWidth,
		Height:            1123,
		DeviceScaleFactor: c.scale,
	}); err != nil {
		return nil, fmt.Errorf("%w: set viewport: %v", ErrCaptureFailed, err)
	}
	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("%w: load document: %v", ErrCaptureFailed, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: wait for document: %v", ErrCaptureFailed, err)
	}

	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: screenshot: %v", ErrCaptureFailed, err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode screenshot: %v", ErrCaptureFailed, err)
	}
	return img, nil
}
