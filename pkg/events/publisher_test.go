package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEnvelopeSerialization(t *testing.T) {
	data := &SpeakerChangedData{SSRC: 42, Present: true}

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}

	env := Envelope{
		ID:        "test-id",
		Type:      SpeakerChanged,
		Source:    "domsd",
		SessionID: "conf-123",
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}

	b, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}

	var decoded Envelope
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}

	if decoded.Type != SpeakerChanged {
		t.Errorf("type = %q, want %q", decoded.Type, SpeakerChanged)
	}
	if decoded.Source != "domsd" {
		t.Errorf("source = %q, want %q", decoded.Source, "domsd")
	}
	if decoded.SessionID != "conf-123" {
		t.Errorf("session_id = %q, want %q", decoded.SessionID, "conf-123")
	}

	var payload SpeakerChangedData
	if err := json.Unmarshal(decoded.Data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.SSRC != 42 {
		t.Errorf("ssrc = %d, want %d", payload.SSRC, 42)
	}
	if !payload.Present {
		t.Error("present = false, want true")
	}
}

func TestEventTypeConstant(t *testing.T) {
	if SpeakerChanged == "" {
		t.Error("empty event type constant")
	}
	if SpeakerChanged != "speaker.changed" {
		t.Errorf("SpeakerChanged = %q, want %q", SpeakerChanged, "speaker.changed")
	}
}

func TestPublisherSubscribeUnsubscribe(t *testing.T) {
	p := &Publisher{subscribers: make(map[string]chan Envelope)}

	ch := p.Subscribe("watcher", 4)

	p.subMu.RLock()
	n := len(p.subscribers)
	p.subMu.RUnlock()
	if n != 1 {
		t.Fatalf("subscriber count = %d, want 1", n)
	}

	p.Unsubscribe("watcher")

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Unsubscribe")
	}
}
