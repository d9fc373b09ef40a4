package dominantspeaker

import (
	"context"
	"testing"
)

// These tests exercise spec.md §8's six end-to-end scenarios (S1-S6). Each
// drives the conference through LevelChanged and steps the decision logic
// directly (idleLevelTickLocked/makeDecisionLocked) rather than waiting on
// the real decision worker goroutine's wall-clock sleeps, so the scenarios
// run deterministically under a fake Clock.

func TestScenarioS1LoneSpeaker(t *testing.T) {
	c, clock := newTestConference()

	var fired []uint32
	c.AddObserver("s1", func(ssrc uint32, ok bool) {
		if ok {
			fired = append(fired, ssrc)
		}
	})

	c.LevelChanged(0xAAAA, 100)

	clock.advance(350)
	c.mu.Lock()
	changed, ssrc, ok := c.makeDecisionLocked()
	c.mu.Unlock()
	if changed {
		c.fireChange(context.Background(), ssrc, ok)
	}

	if !changed || ssrc != 0xAAAA || !ok {
		t.Fatalf("decision = (changed=%v,ssrc=%#x,ok=%v), want (true,0xAAAA,true)", changed, ssrc, ok)
	}
	if len(fired) != 1 || fired[0] != 0xAAAA {
		t.Errorf("observer fired = %v, want [0xAAAA]", fired)
	}
	if got, ok := c.GetDominantSpeaker(); !ok || got != 0xAAAA {
		t.Errorf("GetDominantSpeaker() = (%#x,%v), want (0xAAAA,true)", got, ok)
	}
}

func TestScenarioS2Switch(t *testing.T) {
	c, clock := newTestConference()

	for i := 0; i < 150; i++ { // t = 0..3000 step 20
		clock.advance(20)
		c.LevelChanged(0xAAAA, 120)
	}
	c.mu.Lock()
	c.makeDecisionLocked()
	c.mu.Unlock()
	dominant, _ := c.GetDominantSpeaker()
	if dominant != 0xAAAA {
		t.Fatalf("after A-only activity, dominant = %#x, want 0xAAAA", dominant)
	}

	for i := 0; i < 150; i++ { // t = 3000..6000 step 20
		clock.advance(20)
		c.LevelChanged(0xAAAA, 0)
		c.LevelChanged(0xBBBB, 120)
	}

	var changed bool
	var newSSRC uint32
	var newOK bool
	for i := 0; i < 10 && !changed; i++ {
		c.mu.Lock()
		changed, newSSRC, newOK = c.makeDecisionLocked()
		c.mu.Unlock()
	}

	if !changed || newSSRC != 0xBBBB || !newOK {
		t.Fatalf("switch decision = (changed=%v,ssrc=%#x,ok=%v), want (true,0xBBBB,true)", changed, newSSRC, newOK)
	}
}

func TestScenarioS3TieBreakByMedium(t *testing.T) {
	c, clock := newTestConference()

	// Identical moderate, steady activity for both to begin with.
	for i := 0; i < ImmediateCount; i++ {
		clock.advance(1)
		c.LevelChanged(0xCCCC, 80)
		c.LevelChanged(0xDDDD, 80)
	}
	// Over the freshest medium block D gets a burst of strong activity
	// while C goes quiet, so D's medium window activity strictly exceeds
	// C's (5 active slots against 0). A challenger only unseats an
	// incumbent when it leads on all three scales, which D does here and
	// C never does, so D wins whichever speaker is nominated first.
	for i := 0; i < N2; i++ {
		clock.advance(1)
		c.LevelChanged(0xCCCC, 0)
		c.LevelChanged(0xDDDD, MaxLevel)
	}

	c.mu.Lock()
	c.makeDecisionLocked() // first decision: arbitrary incumbent, unspecified
	c.mu.Unlock()

	var finalDominant int64
	for i := 0; i < 10; i++ {
		c.mu.Lock()
		c.makeDecisionLocked()
		finalDominant = c.dominantSSRC
		c.mu.Unlock()
	}

	if finalDominant != 0xDDDD {
		t.Errorf("final dominant = %#x, want settling on the stronger medium-activity speaker 0xDDDD", finalDominant)
	}
}

func TestScenarioS4IdleFade(t *testing.T) {
	c, clock := newTestConference()

	c.LevelChanged(0xAAAA, 120)

	sp := c.speakers[0xAAAA]
	if sp.immediates[0] == 0 {
		t.Fatal("test setup: expected a nonzero initial sample")
	}

	// Step the level-idle timer forward in LevelIdleTimeout increments,
	// as the worker's idleLevelTickLocked does, without any new input.
	// The first tick only primes the timer; each of the ImmediateCount
	// ticks after it pushes one zero sample.
	for i := 0; i <= ImmediateCount; i++ {
		clock.advance(LevelIdleTimeout.Milliseconds())
		c.mu.Lock()
		c.idleLevelTickLocked(clock.NowMs())
		c.mu.Unlock()
	}

	if sp.immediates[0] != 0 {
		t.Errorf("immediates[0] = %d after sustained idle fade, want 0", sp.immediates[0])
	}
	var anyNonzero bool
	for _, v := range sp.immediates {
		if v != 0 {
			anyNonzero = true
		}
	}
	if anyNonzero {
		t.Error("expected the entire immediates history to have faded to zero")
	}
}

func TestScenarioS5Eviction(t *testing.T) {
	c, clock := newTestConference()

	c.LevelChanged(0xFFFF, 120)

	c.mu.Lock()
	c.makeDecisionLocked() // F is the only speaker so far, so it becomes dominant
	c.mu.Unlock()

	c.LevelChanged(0xEEEE, 50)
	clock.advance(1)
	c.LevelChanged(0xFFFF, 120)

	// Keep F active so it remains dominant while time passes.
	for i := 0; i < 10; i++ {
		clock.advance(SpeakerIdleTimeout.Milliseconds() / 10)
		c.LevelChanged(0xFFFF, 120)
	}

	c.mu.Lock()
	c.idleSweepLocked(clock.NowMs())
	_, eStillPresent := c.speakers[0xEEEE]
	_, fStillPresent := c.speakers[0xFFFF]
	c.mu.Unlock()

	if eStillPresent {
		t.Error("0xEEEE should have been evicted after exceeding SpeakerIdleTimeout with no further input")
	}
	if !fStillPresent {
		t.Error("0xFFFF should remain: it kept sending levels")
	}
}

func TestScenarioS6OutOfOrderDrop(t *testing.T) {
	c, clock := newTestConference()
	_ = clock

	c.LevelChanged(0xAAAA, 50) // reported time will be whatever the fake clock reads

	sp := c.speakers[0xAAAA]
	sp.levelChanged(50, 1000)
	sp.levelChanged(100, 999) // older report must be dropped

	if got, want := sp.immediates[0], byte(50/N1); got != want {
		t.Errorf("immediates[0] = %d, want %d (the freshest accepted report, not the stale one)", got, want)
	}
	if sp.lastLevelChanged() != 1000 {
		t.Errorf("lastLevelChanged() = %d, want 1000", sp.lastLevelChanged())
	}
}
