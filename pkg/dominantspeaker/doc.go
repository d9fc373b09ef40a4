// Package dominantspeaker identifies which participant is currently
// dominating speech in a multipoint audio conference.
//
// It implements the statistical decision engine described by Volfin and
// Cohen, "Dominant Speaker Identification for Multipoint Videoconferencing":
// a three-scale (immediate/medium/long) binomial speech-activity estimator
// per speaker, and a global decision rule that compares every challenger
// against the current dominant speaker on three relative-activity
// thresholds.
//
// The package does not receive RTP packets or parse audio-level header
// extensions itself — see pkg/rtpaudiolevel for a thin adapter that does
// and calls into Conference.LevelChanged. dominantspeaker only consumes a
// stream of (ssrc, level) reports and a place to run its background
// decision loop.
package dominantspeaker
