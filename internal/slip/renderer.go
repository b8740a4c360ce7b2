package slip

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/umarkabirdananini/portal/internal/records"
)

//go:embed templates/slip.html.tmpl
var templateFS embed.FS

// RenderedSlip is a fully-resolved slip document: every record field
// substituted, every free-text value escaped, every dynamic value (issue
// date, QR payload) resolved at render time. Immutable once produced.
type RenderedSlip struct {
	HTML      string
	Reference string // normalized
	Name      string
	Serial    string
	IssuedAt  time.Time
}

// Renderer composes a record into a slip document using a fixed template.
// Rendering has no side effects and never mutates the input record.
type Renderer struct {
	placeholderPhoto string
	qrEndpoint       string
	now              func() time.Time
	tmpl             *template.Template
}

// NewRenderer builds a renderer. placeholderPhoto substitutes for a missing
// photo reference, qrEndpoint is the external QR image service, and now
// supplies the issue date (pass time.Now outside tests).
func NewRenderer(placeholderPhoto, qrEndpoint string, now func() time.Time) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/slip.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse slip template: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return &Renderer{
		placeholderPhoto: placeholderPhoto,
		qrEndpoint:       qrEndpoint,
		now:              now,
		tmpl:             tmpl,
	}, nil
}

// slipData is the resolved template input. Free-text fields stay plain
// strings so html/template escapes them on substitution.
type slipData struct {
	Name           string
	Course         string
	LGA            string
	Reference      string
	Serial         string
	EducationLevel string
	PhotoURL       string
	QRURL          string
	IssueDate      string
}

// Render produces the slip for a record. Field resolution rules:
//   - photo: trimmed PhotoURL, or the placeholder when blank
//   - educationLevel: trimmed value, or the literal em dash when blank
//   - issueDate: the current date, long format, recomputed on every call
//   - QR payload: the normalized reference, URL-encoded, as an external
//     image URL; the QR service rasterizes it, not this package
func (r *Renderer) Render(rec records.Record) (RenderedSlip, error) {
	issuedAt := r.now()

	photo := strings.TrimSpace(rec.PhotoURL)
	if photo == "" {
		photo = r.placeholderPhoto
	}
	edu := strings.TrimSpace(rec.EducationLevel)
	if edu == "" {
		edu = "—"
	}
	normalized := records.Normalize(rec.Reference)

	data := slipData{
		Name:           rec.Name,
		Course:         rec.Course,
		LGA:            rec.LGA,
		Reference:      rec.Reference,
		Serial:         rec.Serial,
		EducationLevel: edu,
		PhotoURL:       photo,
		QRURL:          fmt.Sprintf("%s?size=180x180&data=%s", r.qrEndpoint, url.QueryEscape(normalized)),
		IssueDate:      issuedAt.Format("January 2, 2006"),
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return RenderedSlip{}, fmt.Errorf("render slip: %w", err)
	}

	return RenderedSlip{
		HTML:      buf.String(),
		Reference: normalized,
		Name:      rec.Name,
		Serial:    rec.Serial,
		IssuedAt:  issuedAt,
	}, nil
}
