package export

import (
	"strings"

	"github.com/umarkabirdananini/portal/internal/records"
)

// fallbackLabel names the artifact when nothing of the reference survives
// sanitization.
const fallbackLabel = "Candidate"

// Filename derives the export artifact name from a reference. The reference
// is normalized, then every character outside [A-Z0-9-] is stripped; an empty
// result falls back to a fixed label.
func Filename(reference string) string {
	norm := records.Normalize(reference)
	var b strings.Builder
	b.Grow(len(norm))
	for _, r := range norm {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-':
			b.WriteRune(r)
		}
	}
	base := b.String()
	if base == "" {
		base = fallbackLabel
	}
	return "Selection_Slip_" + base + ".pdf"
}
