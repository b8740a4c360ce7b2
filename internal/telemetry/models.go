package telemetry

import "time"

// Actions carried by usage events.
const (
	ActionGenerated = "generated"
	ActionPrint     = "print"
)

// Event is one usage event. Events are fire-and-forget: built once per
// export action, emitted, and discarded. Browser is derived from the
// requester's user agent and only recorded in the local mirror, never sent
// to the collector.
type Event struct {
	Action    string
	Reference string // normalized
	Name      string
	Serial    string
	PageURL   string
	Timestamp time.Time
	Browser   string
}
