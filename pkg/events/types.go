// Package events carries dominant-speaker change notifications onto an
// external event bus, alongside (not instead of) the in-process observer
// callbacks dominantspeaker.Conference dispatches directly. Adapted from
// the teacher's event envelope/publisher, trimmed to the one event type
// this engine emits.
package events

import (
	"encoding/json"
	"time"
)

// EventType identifies the kind of event flowing through the bus.
type EventType string

// SpeakerChanged is the only event type this engine emits.
const SpeakerChanged EventType = "speaker.changed"

// Envelope is the standard event wrapper published to the event bus.
type Envelope struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	Source    string            `json:"source"`
	SessionID string            `json:"session_id"`
	Timestamp time.Time         `json:"timestamp"`
	Data      json.RawMessage   `json:"data"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// SpeakerChangedData is the payload for speaker.changed events.
type SpeakerChangedData struct {
	SSRC    uint32 `json:"ssrc,omitempty"`
	Present bool   `json:"present"`
}
