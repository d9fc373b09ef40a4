package dominantspeaker

import (
	"context"
	"sync"

	"github.com/activespeaker/domsd/pkg/events"
)

// WorkerPool is the subset of github.com/pitabwire/frame/workerpool's
// WorkerPool that the decision worker depends on: submitting a task to
// run asynchronously. Declared locally (rather than importing the
// concrete frame type) so tests can supply a lightweight stand-in
// without pulling in the real pool's scheduling behavior; a
// *workerpool.Pool from frame satisfies this interface unchanged.
type WorkerPool interface {
	Submit(ctx context.Context, fn func()) error
}

// Conference is the shared state of one multipoint audio conference: the
// set of known speakers, which one (if any) is currently dominant, and
// the bookkeeping the background decision worker needs. Exactly one
// Conference exists per engine instance (spec.md §3).
//
// The Conference exclusively owns its Speakers. The decision worker it
// spawns is identified by a generation token (see
// maybeStartDecisionMakerLocked) and exits once that token is no longer
// the conference's current one. The worker goroutine holds an ordinary
// (strong) reference to the Conference, so a conference with a running
// worker stays reachable until that worker stands down, which happens
// after DecisionMakerIdleTimeout without level reports.
type Conference struct {
	mu sync.Mutex

	speakers     map[uint32]*Speaker
	dominantSSRC int64 // noDominant sentinel when absent

	lastLevelChangedTimeMs int64
	lastDecisionTimeMs     int64
	lastLevelIdleTimeMs    int64

	// decisionWorkerGen is 0 when no worker is associated with this
	// conference, and otherwise identifies the currently-associated
	// worker's generation. A running worker compares its own captured
	// generation against this field on every tick (see decision.go); a
	// mismatch means it has been superseded (or the conference wants no
	// worker at all) and it exits.
	decisionWorkerGen uint64
	nextWorkerGen     uint64

	observers map[string]Observer

	clock     Clock
	pool      WorkerPool
	publisher *events.Publisher
	metrics   *Metrics

	// bgCtx is the background context used for pool.Submit and for any
	// Emit calls made from the decision worker, not tied to any single
	// request.
	bgCtx context.Context
}

// Option configures optional Conference collaborators.
type Option func(*Conference)

// WithWorkerPool supplies the pooled executor the decision worker runs
// on. Without one, the worker runs on a bare goroutine, matching the
// teacher's nil-pool fallback (sfu.SpeakerDetector.Start).
func WithWorkerPool(pool WorkerPool) Option {
	return func(c *Conference) { c.pool = pool }
}

// WithClock overrides the default SystemClock, primarily for tests.
func WithClock(clock Clock) Option {
	return func(c *Conference) { c.clock = clock }
}

// WithEventPublisher causes dominant-speaker changes to also be emitted
// as events.SpeakerChanged envelopes on the given publisher, in addition
// to the in-process observer dispatch.
func WithEventPublisher(pub *events.Publisher) Option {
	return func(c *Conference) { c.publisher = pub }
}

// WithMetrics attaches Prometheus instrumentation to the conference.
func WithMetrics(m *Metrics) Option {
	return func(c *Conference) { c.metrics = m }
}

// NewConference creates an empty Conference. ctx is the background
// context used for the decision worker's own pool submissions and event
// emission; it should outlive the conference's expected use, not any
// single request.
func NewConference(ctx context.Context, opts ...Option) *Conference {
	c := &Conference{
		speakers:     make(map[uint32]*Speaker),
		dominantSSRC: noDominant,
		observers:    make(map[string]Observer),
		clock:        NewSystemClock(),
		bgCtx:        ctx,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LevelChanged is the engine's sole ingress point (spec.md §4.E):
// level_changed(ssrc, level). It is thread-safe, non-blocking beyond a
// short critical section, and never waits for the decision worker.
//
// Level values outside [MinLevel, MaxLevel] are clamped, not rejected.
func (c *Conference) LevelChanged(ssrc uint32, level int32) {
	now := c.clock.NowMs()

	c.mu.Lock()
	speaker, ok := c.speakers[ssrc]
	if !ok {
		speaker = newSpeaker(ssrc)
		c.speakers[ssrc] = speaker
	}
	if c.lastLevelChangedTimeMs < now {
		c.lastLevelChangedTimeMs = now
		c.maybeStartDecisionMakerLocked()
	}
	c.mu.Unlock()

	// Two-phase locking: the conference lock is released before touching
	// the speaker, bounding the conference-lock hold time (spec.md §4.C).
	speaker.levelChanged(level, now)
}

// GetDominantSpeaker returns the SSRC of the current dominant speaker.
// ok is false when there is none, the idiomatic Go rendering of
// spec.md §6's "u32 | none" contract (a sentinel -1 doesn't fit in a
// uint32 without an ambiguous wraparound reading).
func (c *Conference) GetDominantSpeaker() (ssrc uint32, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dominantSSRC == noDominant {
		return 0, false
	}
	return uint32(c.dominantSSRC), true
}

// speakerCountLocked returns the number of known speakers. Caller must
// hold c.mu. Used wherever conference code needs that count rather than
// reaching into c.speakers directly (maybeStartDecisionMakerLocked,
// decision.go).
func (c *Conference) speakerCountLocked() int {
	return len(c.speakers)
}
