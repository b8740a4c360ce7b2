package records

// Record is one candidate entry from the master list. Records are immutable
// once loaded; the set is loaded once per process and never mutated.
//
// Reference is the source of truth for matching. EducationLevel and PhotoURL
// are optional and treated as blank when empty or whitespace-only; their
// fallback values are a rendering concern. Serial is a display-only sequence
// label, never used for identity.
type Record struct {
	Reference      string `json:"reference"`
	Name           string `json:"name"`
	Course         string `json:"course"`
	LGA            string `json:"lga"`
	EducationLevel string `json:"educationLevel,omitempty"`
	Serial         string `json:"serial"`
	PhotoURL       string `json:"photoUrl,omitempty"`
}
