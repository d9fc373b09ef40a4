package dominantspeaker

import (
	"context"
	"math"
	"time"
)

// maybeStartDecisionMakerLocked spawns a decision worker if none is
// currently associated with the conference and at least one speaker
// exists. Caller must hold c.mu. Idempotent: a conference that already
// has a worker, or has no speakers, is left untouched.
//
// If submission to the pool fails, the association is reverted so the
// next LevelChanged call retries (spec.md §7: "Worker failure to spawn:
// the conference reverts its decision_worker handle").
func (c *Conference) maybeStartDecisionMakerLocked() {
	if c.decisionWorkerGen != 0 || c.speakerCountLocked() == 0 {
		return
	}

	c.nextWorkerGen++
	gen := c.nextWorkerGen
	c.decisionWorkerGen = gen

	run := func() { c.runDecisionWorker(gen) }

	var err error
	if c.pool != nil {
		err = c.pool.Submit(c.bgCtx, run)
	} else {
		go run()
	}

	if err != nil {
		c.decisionWorkerGen = 0
		if c.metrics != nil {
			c.metrics.spawnFailures.Inc()
		}
		return
	}
	if c.metrics != nil {
		c.metrics.workerSpawns.Inc()
	}
}

// runDecisionWorker is the decision worker's main loop: tick, sleep for
// the returned duration, repeat, until a tick reports exit. gen is the
// worker's own generation, captured once at spawn time and compared
// against the conference's current decisionWorkerGen on every tick. The
// loop holds a strong reference to c for as long as it runs.
func (c *Conference) runDecisionWorker(gen uint64) {
	for {
		sleepMs, exit := c.workerTick(gen)
		if exit {
			return
		}
		if sleepMs > 0 {
			time.Sleep(time.Duration(sleepMs) * time.Millisecond)
		}
	}
}

// workerTick implements one iteration of the decision worker: the
// worker-coordination checks from spec.md §4.C ("Worker coordination"),
// followed by the decision_tick body (idle sweep, then the global
// decision rule on cadence). Runs under the conference lock, except
// for the final observer/event dispatch, which spec.md §4.D and §9
// require happen outside any lock.
func (c *Conference) workerTick(gen uint64) (sleepMs int64, exit bool) {
	c.mu.Lock()

	if c.decisionWorkerGen != gen {
		// Superseded: the conference's handle names another worker, or
		// none. Leave the handle alone — it isn't ours anymore.
		c.mu.Unlock()
		return 0, true
	}

	if c.lastDecisionTimeMs > 0 &&
		c.lastDecisionTimeMs-c.lastLevelChangedTimeMs >= DecisionMakerIdleTimeout.Milliseconds() {
		c.decisionWorkerGen = 0
		c.mu.Unlock()
		return 0, true
	}

	now := c.clock.NowMs()

	sleepCandidate := c.idleLevelTickLocked(now)

	var changed bool
	var newSSRC uint32
	var newOK bool

	decisionRemaining := DecisionInterval.Milliseconds() - (now - c.lastDecisionTimeMs)
	if decisionRemaining <= 0 {
		c.lastDecisionTimeMs = now
		decisionStart := time.Now()
		changed, newSSRC, newOK = c.makeDecisionLocked()
		if c.metrics != nil {
			c.metrics.decisions.Inc()
			c.metrics.decisionDuration.Observe(time.Since(decisionStart).Seconds())
		}
		decisionRemaining = DecisionInterval.Milliseconds() - (c.clock.NowMs() - now)
	}

	if decisionRemaining < 0 {
		decisionRemaining = 0
	}
	sleep := sleepCandidate
	if decisionRemaining < sleep {
		sleep = decisionRemaining
	}

	if c.metrics != nil {
		c.metrics.ticks.Inc()
	}
	c.mu.Unlock()

	if changed {
		c.fireChange(c.bgCtx, newSSRC, newOK)
	}

	return sleep, false
}

// idleLevelTickLocked runs the idle sweep when its timer has elapsed and
// returns the candidate sleep duration (ms) for the level-idle timer
// component of the tick. Caller must hold c.mu.
//
// lastLevelIdleTimeMs == 0 is the "never swept yet" sentinel; the first
// call after a conference is created primes the timer without sweeping,
// matching the spec's explicit "last_level_idle_time != 0" guard.
func (c *Conference) idleLevelTickLocked(now int64) int64 {
	remaining := LevelIdleTimeout.Milliseconds() - (now - c.lastLevelIdleTimeMs)

	if c.lastLevelIdleTimeMs == 0 {
		c.lastLevelIdleTimeMs = now
		return LevelIdleTimeout.Milliseconds()
	}

	if remaining <= 0 {
		c.idleSweepLocked(now)
		c.lastLevelIdleTimeMs = now
		return LevelIdleTimeout.Milliseconds()
	}

	return remaining
}

// idleSweepLocked evicts non-dominant speakers that have been silent for
// more than SpeakerIdleTimeout, and injects a fade-out zero sample into
// any speaker silent for more than LevelIdleTimeout. The dominant
// speaker is never evicted by this sweep (spec.md §4.C).
func (c *Conference) idleSweepLocked(now int64) {
	for ssrc, sp := range c.speakers {
		idle := now - sp.lastLevelChanged()

		if idle > SpeakerIdleTimeout.Milliseconds() && int64(ssrc) != c.dominantSSRC {
			delete(c.speakers, ssrc)
			if c.metrics != nil {
				c.metrics.evictions.Inc()
			}
			continue
		}
		if idle > LevelIdleTimeout.Milliseconds() {
			sp.levelTimedOut()
		}
	}
}

// makeDecisionLocked runs the global decision rule (spec.md §4.C) and
// updates c.dominantSSRC. Caller must hold c.mu. Returns whether the
// dominant speaker changed and, if so, the new value — callers must
// dispatch that change to observers only after releasing c.mu.
func (c *Conference) makeDecisionLocked() (changed bool, newSSRC uint32, newOK bool) {
	oldDominant := c.dominantSSRC

	var newDominant int64
	switch c.speakerCountLocked() {
	case 0:
		newDominant = noDominant

	case 1:
		newDominant = noDominant
		for ssrc := range c.speakers {
			newDominant = int64(ssrc)
		}

	default:
		newDominant = oldDominant

		var incumbentSSRC uint32
		incumbent, ok := c.incumbentLocked(oldDominant)
		if !ok {
			// No (valid) incumbent recorded: nominate an arbitrary
			// speaker as the provisional incumbent. Map iteration order
			// is unspecified in Go, so this choice is deliberately
			// non-deterministic across runs (spec.md §9 Open Question).
			for ssrc, sp := range c.speakers {
				incumbentSSRC, incumbent = ssrc, sp
				break
			}
			newDominant = int64(incumbentSSRC)
		} else {
			incumbentSSRC = uint32(oldDominant)
		}

		incumbent.evaluateSpeechActivityScores()

		bestC2 := decisionC2
		for ssrc, s := range c.speakers {
			if ssrc == incumbentSSRC {
				continue
			}
			s.evaluateSpeechActivityScores()

			r0 := math.Log(s.score(Immediate) / incumbent.score(Immediate))
			r1 := math.Log(s.score(Medium) / incumbent.score(Medium))
			r2 := math.Log(s.score(Long) / incumbent.score(Long))

			if r0 > decisionC1 && r1 > decisionC2 && r2 > decisionC3 && r1 > bestC2 {
				bestC2 = r1
				newDominant = int64(ssrc)
			}
		}
	}

	if newDominant == oldDominant {
		return false, 0, false
	}

	c.dominantSSRC = newDominant
	if newDominant == noDominant {
		return true, 0, false
	}
	return true, uint32(newDominant), true
}

// incumbentLocked looks up the Speaker for a recorded dominant SSRC.
// Caller must hold c.mu.
func (c *Conference) incumbentLocked(dominant int64) (*Speaker, bool) {
	if dominant == noDominant {
		return nil, false
	}
	sp, ok := c.speakers[uint32(dominant)]
	return sp, ok
}

// publishChange emits a SpeakerChanged event on the conference's event
// publisher, if one was configured. Called outside any lock.
func (c *Conference) publishChange(ctx context.Context, ssrc uint32, ok bool) {
	c.publisher.emitSpeakerChanged(ctx, ssrc, ok)
}
