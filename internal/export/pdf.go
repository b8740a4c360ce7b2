package export

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/go-pdf/fpdf"
)

// Assemble crops each planned band out of the captured raster and places it
// on successive A4 pages at the page margin. Every band is a pixel-exact copy
// of its source region.
func Assemble(capture image.Image, plan Plan) ([]byte, error) {
	if plan.Pages() == 0 {
		return nil, fmt.Errorf("assemble: empty pagination plan")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, sl := range plan.Slices {
		band := cropBand(capture, sl)
		var buf bytes.Buffer
		if err := png.Encode(&buf, band); err != nil {
			return nil, fmt.Errorf("assemble: encode band %d: %w", i, err)
		}
		name := fmt.Sprintf("band-%d", i)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.AddPage()
		pdf.ImageOptions(name, plan.Page.MarginMm, plan.Page.MarginMm, plan.WidthMm, sl.HeightMm, false, opts, 0, "")
	}

	if pdf.Err() {
		return nil, fmt.Errorf("assemble: %w", pdf.Error())
	}
	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("assemble: write pdf: %w", err)
	}
	return out.Bytes(), nil
}

// cropBand copies one horizontal band of the source into a fresh buffer of
// the same width. A copy, not a SubImage view, so the band survives the
// source being released and encodes with a zero origin.
func cropBand(src image.Image, sl Slice) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), sl.HeightPx))
	draw.Draw(dst, dst.Bounds(), src, image.Pt(b.Min.X, b.Min.Y+sl.OffsetPx), draw.Src)
	return dst
}
