package handoff

import "context"

// Payload is the complete state a print view needs: the already-rendered slip
// markup plus the identifying fields. The print view interpolates these
// strings and nothing else; it performs no lookup and no re-render.
type Payload struct {
	SlipHTML  string `json:"slipHtml"`
	Reference string `json:"reference"` // normalized
	Name      string `json:"name"`
	Serial    string `json:"serial"`
}

// Store persists handoff payloads for the short window between preparing a
// print and the isolated second view loading it. Entries are overwritten by
// the next handoff and expire on their own; nothing deletes them explicitly.
type Store interface {
	Save(ctx context.Context, token string, p Payload) error
	Load(ctx context.Context, token string) (Payload, error)
}
