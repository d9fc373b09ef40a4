package dominantspeaker

import "time"

// Quantization and history-geometry constants from Volfin & Cohen.
const (
	// N1 is the number of audio sub-bands a level quantizes into.
	N1 = 13
	// N1MediumThreshold is the "active" cutoff applied to immediates when
	// folding them into a medium-interval window: N1/2 - 1.
	N1MediumThreshold = N1/2 - 1
	// N2 is the number of immediate slots folded into one medium slot.
	N2 = 5
	// N2LongThreshold is the "active" cutoff applied to mediums when
	// folding them into the long-interval window: N2 - 1.
	N2LongThreshold = N2 - 1
	// N3 is the number of medium slots folded into one long slot.
	N3 = 10
	// LongCount is the number of long-interval slots (always 1 here).
	LongCount = 1

	// ImmediateCount is the size of the immediates sliding history.
	ImmediateCount = LongCount * N3 * N2
	// MediumCount is the size of the mediums sliding history.
	MediumCount = LongCount * N3

	// MinLevel and MaxLevel bound an accepted audio level; inputs outside
	// this range are clamped, never rejected.
	MinLevel = 0
	MaxLevel = 127
)

// MinSpeechActivityScore is the floor every cached score is clamped to: it
// is strictly positive because scores are used as logarithm arguments and
// as denominators of relative-activity ratios.
const MinSpeechActivityScore = 1e-10

// Interval identifies one of the three speech-activity scales.
type Interval int

const (
	Immediate Interval = iota
	Medium
	Long
)

// Per-interval scoring configuration (spec.md §4.A table). p is 0.5 for
// all three; only nR and lambda vary.
const (
	immediateNR     = 13
	immediateLambda = 0.78

	mediumNR     = 5
	mediumLambda = 24

	longNR     = 10
	longLambda = 47

	scoreP = 0.5
)

// Global decision-rule constants (spec.md §4.C).
const (
	decisionC1 = 3.0
	decisionC2 = 2.0
	decisionC3 = 0.0
)

// Timing constants (spec.md §3, §4.C, §5). These are compile-time by
// design — spec.md §6 rules out a runtime tuning interface for them.
const (
	// LevelIdleTimeout is how long a speaker may go without a level
	// report before the decision worker injects a synthetic zero sample.
	LevelIdleTimeout = 40 * time.Millisecond
	// DecisionInterval is the nominal cadence of the global decision rule.
	DecisionInterval = 300 * time.Millisecond
	// SpeakerIdleTimeout evicts a non-dominant speaker that has gone
	// silent for this long.
	SpeakerIdleTimeout = time.Hour
	// DecisionMakerIdleTimeout is how long the worker tolerates a
	// conference with no incoming levels before standing itself down.
	DecisionMakerIdleTimeout = 15 * time.Second
)

// noDominant is the sentinel SSRC value meaning "no dominant speaker",
// matching spec.md §4.C's get_dominant_speaker() contract.
const noDominant int64 = -1
