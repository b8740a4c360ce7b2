package export

import (
	"fmt"
	"math"
)

// PageSpec describes the target page geometry in millimetres.
type PageSpec struct {
	WidthMm  float64
	HeightMm float64
	MarginMm float64
}

// A4Portrait with 8mm margins is the export geometry.
var A4Portrait = PageSpec{WidthMm: 210, HeightMm: 297, MarginMm: 8}

// ContentWidthMm is the placeable width inside the margins.
func (p PageSpec) ContentWidthMm() float64 { return p.WidthMm - 2*p.MarginMm }

// ContentHeightMm is the placeable height inside the margins.
func (p PageSpec) ContentHeightMm() float64 { return p.HeightMm - 2*p.MarginMm }

// Slice is one page-sized horizontal band of the source raster. Bands are
// cropped, never resampled, so sharpness survives page boundaries.
type Slice struct {
	OffsetPx int     // top edge of the band in source pixels
	HeightPx int     // band height in source pixels
	HeightMm float64 // placed height on the page
}

// Plan is the complete pagination of a capture onto pages: every band placed
// at (margin, margin), scaled to the content width, in top-to-bottom source
// order. Bands cover the source exactly, no gap and no overlap.
type Plan struct {
	Page    PageSpec
	WidthMm float64 // placed image width, always the content width
	PxPerMm float64
	Slices  []Slice
}

// Pages is the number of output pages.
func (p Plan) Pages() int { return len(p.Slices) }

// Layout computes the pagination of a captured raster onto the given page.
// The image is fit to the content width preserving aspect ratio. If the
// scaled height fits one page a single full-height slice is emitted;
// otherwise the source is cut into bands of floor(contentHeightMm*pxPerMm)
// pixels with a shorter final band taking whatever remains.
func Layout(widthPx, heightPx int, page PageSpec) (Plan, error) {
	if widthPx <= 0 || heightPx <= 0 {
		return Plan{}, fmt.Errorf("layout: capture dimensions %dx%d are not positive", widthPx, heightPx)
	}
	if page.ContentWidthMm() <= 0 || page.ContentHeightMm() <= 0 {
		return Plan{}, fmt.Errorf("layout: page %+v leaves no content area", page)
	}

	imgWidthMm := page.ContentWidthMm()
	imgHeightMm := float64(heightPx) * imgWidthMm / float64(widthPx)
	pxPerMm := float64(widthPx) / imgWidthMm

	plan := Plan{Page: page, WidthMm: imgWidthMm, PxPerMm: pxPerMm}

	if imgHeightMm <= page.ContentHeightMm() {
		plan.Slices = []Slice{{OffsetPx: 0, HeightPx: heightPx, HeightMm: imgHeightMm}}
		return plan, nil
	}

	fullSlicePx := int(math.Floor(page.ContentHeightMm() * pxPerMm))
	if fullSlicePx < 1 {
		fullSlicePx = 1
	}
	for offset := 0; offset < heightPx; {
		slicePx := fullSlicePx
		if remaining := heightPx - offset; remaining < slicePx {
			slicePx = remaining
		}
		plan.Slices = append(plan.Slices, Slice{
			OffsetPx: offset,
			HeightPx: slicePx,
			HeightMm: float64(slicePx) / pxPerMm,
		})
		offset += slicePx
	}
	return plan, nil
}
