package records

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// fileRecord mirrors the master-list JSON schema. Serial is accepted as
// either a string or a bare number since exports from spreadsheets produce
// both; everything else missing or malformed collapses to blank.
type fileRecord struct {
	Reference      string     `json:"reference"`
	Name           string     `json:"name"`
	Course         string     `json:"course"`
	LGA            string     `json:"lga"`
	EducationLevel string     `json:"educationLevel"`
	Serial         flexString `json:"serial"`
	PhotoURL       string     `json:"photoUrl"`
}

// flexString unmarshals a JSON string, number, or null into a string.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = flexString(num.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*s = flexString(strconv.FormatBool(b))
		return nil
	}
	return fmt.Errorf("serial: unsupported JSON value %s", data)
}

// LoadFile reads the master list from a JSON array on disk, in file order.
func LoadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read master list: %w", err)
	}
	var raw []fileRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse master list %s: %w", path, err)
	}
	recs := make([]Record, 0, len(raw))
	for _, fr := range raw {
		recs = append(recs, Record{
			Reference:      fr.Reference,
			Name:           fr.Name,
			Course:         fr.Course,
			LGA:            fr.LGA,
			EducationLevel: fr.EducationLevel,
			Serial:         string(fr.Serial),
			PhotoURL:       fr.PhotoURL,
		})
	}
	return recs, nil
}
