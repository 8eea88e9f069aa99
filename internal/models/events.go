package models

// EventKind tags a change notification pushed by the backend.
type EventKind string

const (
	EventResourceCreated  EventKind = "resource_created"
	EventResourceApproved EventKind = "resource_approved"
)

// Recognized reports whether the kind is meaningful to the client core.
// Anything else is discarded without surfacing an error.
func (k EventKind) Recognized() bool {
	return k == EventResourceCreated || k == EventResourceApproved
}

// ChangeEvent is the JSON payload of a pushed invalidation message. It
// carries no ordering token and no entity data: it is an opaque
// "re-check now" signal, never an incremental patch.
type ChangeEvent struct {
	Event EventKind `json:"event"`
}
