package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers
// return these (optionally wrapped) so services can translate them into
// user-facing responses.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in the store or record set
// - ErrExpired: handoff payload has passed its TTL
// - ErrUnavailable: backing resource failed to load or is unreachable
var (
	ErrNotFound    = errors.New("not found")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)
