// Package rtpaudiolevel bridges RTP packets carrying the RFC 6464
// client-to-mixer audio level header extension to a
// dominantspeaker.Conference. It does not receive RTP itself — the
// caller owns the track/session machinery and hands packets in, the
// same division of responsibility as the teacher's
// PublisherTrack.parseAudioLevel / SpeakerDetector.UpdateLevel pair.
package rtpaudiolevel

import (
	"github.com/pion/rtp"
)

// LevelReceiver is the subset of dominantspeaker.Conference this package
// depends on, so callers can inject a fake in tests without importing
// the engine package.
type LevelReceiver interface {
	LevelChanged(ssrc uint32, level int32)
}

// ExtensionID identifies the audio level header extension within an RTP
// packet's extension profile, as negotiated out-of-band (typically via
// SDP). There is no fixed wire value: RFC 8285 one-byte extensions are
// numbered per session.
type ExtensionID uint8

// Tap parses the audio-level extension off RTP packets for one track
// and forwards each sample to a LevelReceiver. It is safe to use from a
// single reader goroutine; it carries no internal locking of its own
// because it does not require any.
type Tap struct {
	extID ExtensionID
	recv  LevelReceiver
}

// NewTap builds a Tap that reads extID's header extension from each
// packet passed to Observe and reports it against recv.
func NewTap(extID ExtensionID, recv LevelReceiver) *Tap {
	return &Tap{extID: extID, recv: recv}
}

// Observe extracts the audio level extension from pkt, if present, and
// forwards it to the receiver keyed by the packet's SSRC. Packets
// without the extension, or with a malformed one, are silently ignored
// — matching the teacher's parseAudioLevel, which treats a missing or
// unparseable extension as "no level information this packet".
func (t *Tap) Observe(pkt *rtp.Packet) {
	if t == nil || t.recv == nil || pkt == nil {
		return
	}

	raw := pkt.Header.GetExtension(uint8(t.extID))
	if raw == nil {
		return
	}

	var ext rtp.AudioLevelExtension
	if err := ext.Unmarshal(raw); err != nil {
		return
	}

	t.recv.LevelChanged(pkt.SSRC, int32(ext.Level))
}

// ParseLevel extracts the raw (level, voice) pair from pkt's audio level
// extension without forwarding it anywhere, for callers that want the
// voice-activity flag RFC 6464 carries alongside the level. ok is false
// when the extension is absent or malformed.
func ParseLevel(pkt *rtp.Packet, extID ExtensionID) (level uint8, voice bool, ok bool) {
	if pkt == nil {
		return 0, false, false
	}
	raw := pkt.Header.GetExtension(uint8(extID))
	if raw == nil {
		return 0, false, false
	}
	var ext rtp.AudioLevelExtension
	if err := ext.Unmarshal(raw); err != nil {
		return 0, false, false
	}
	return ext.Level, ext.Voice, true
}
