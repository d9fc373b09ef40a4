package dominantspeaker

import "sync"

// Speaker holds the sliding speech-activity history and cached scores for
// one SSRC. All mutators are serialized with respect to the speaker's own
// state via mu. Where the conference lock and a speaker lock are held at
// once, the conference lock is always taken first and the speaker lock
// second.
type Speaker struct {
	mu sync.Mutex

	ssrc uint32

	// immediates[0] is the freshest quantized level; new samples shift the
	// slice toward higher indices, dropping the oldest.
	immediates [ImmediateCount]byte
	mediums    [MediumCount]byte
	longs      [LongCount]byte

	immediateScore float64
	mediumScore    float64
	longScore      float64

	lastLevelChangedTimeMs int64
}

// newSpeaker creates a Speaker for ssrc with scores at their floor until
// the first evaluation runs.
func newSpeaker(ssrc uint32) *Speaker {
	return &Speaker{
		ssrc:           ssrc,
		immediateScore: MinSpeechActivityScore,
		mediumScore:    MinSpeechActivityScore,
		longScore:      MinSpeechActivityScore,
	}
}

// SSRC returns the speaker's synchronization source identifier.
func (s *Speaker) SSRC() uint32 { return s.ssrc }

// levelChanged records a new audio level report at timeMs. Reports that
// are strictly older than the last accepted report are silently dropped
// (the monotone-time invariant, spec.md §5) — note the accept-guard uses
// "<", not "<=", so that levelTimedOut's equal-timestamp replay is
// accepted (see levelTimedOut and DESIGN.md's Open Question resolution).
func (s *Speaker) levelChanged(level int32, timeMs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timeMs < s.lastLevelChangedTimeMs {
		return
	}
	s.lastLevelChangedTimeMs = timeMs

	if level < MinLevel {
		level = MinLevel
	} else if level > MaxLevel {
		level = MaxLevel
	}

	copy(s.immediates[1:], s.immediates[:len(s.immediates)-1])
	s.immediates[0] = byte(level / N1)
}

// levelTimedOut pushes a zero sample into the history without advancing
// the timestamp, by re-invoking levelChanged with the speaker's own last
// accepted time. This is how a silent speaker fades out between real
// level reports (spec.md §4.B, §4.C idle sweep).
func (s *Speaker) levelTimedOut() {
	s.mu.Lock()
	last := s.lastLevelChangedTimeMs
	s.mu.Unlock()
	s.levelChanged(MinLevel, last)
}

// lastLevelChanged returns the timestamp of the last accepted level
// report, used by the idle sweep to decide fade-out vs. eviction.
func (s *Speaker) lastLevelChanged() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLevelChangedTimeMs
}

// evaluateSpeechActivityScores recomputes the immediate score
// unconditionally, and lazily cascades into the medium and long scores
// only when the coarser window actually changed. This lazy cascade is
// load-bearing for CPU budget: a speaker who hasn't newly crossed the
// medium threshold never re-runs the long evaluation.
func (s *Speaker) evaluateSpeechActivityScores() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.immediateScore = speechActivityScore(int64(s.immediates[0]), immediateNR, scoreP, immediateLambda)

	if computeBigs(s.immediates[:], s.mediums[:], N1MediumThreshold) {
		s.mediumScore = speechActivityScore(int64(s.mediums[0]), mediumNR, scoreP, mediumLambda)

		if computeBigs(s.mediums[:], s.longs[:], N2LongThreshold) {
			s.longScore = speechActivityScore(int64(s.longs[0]), longNR, scoreP, longLambda)
		}
	}
}

// score returns the cached score for the given interval. interval must be
// one of Immediate, Medium, Long; any other value is a programmer error
// and panics, matching spec.md §4.B's "programmer error" contract.
func (s *Speaker) score(interval Interval) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch interval {
	case Immediate:
		return s.immediateScore
	case Medium:
		return s.mediumScore
	case Long:
		return s.longScore
	default:
		panic("dominantspeaker: invalid interval")
	}
}
