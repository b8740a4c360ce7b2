package records

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes a raw reference into its comparable key: trimmed,
// upper-cased, with every whitespace run removed. Two references identify the
// same record iff their normalized keys are equal; case and spacing carry no
// meaning anywhere in the system.
//
// Normalize is pure, total and idempotent.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
