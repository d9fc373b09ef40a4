// Package config holds this service's ambient, operational configuration.
// It never exposes the Volfin-Cohen scoring constants: those stay
// compile-time (see pkg/dominantspeaker's constants.go) with no runtime
// tuning interface, matching spec.md §6.
package config

import (
	"github.com/pitabwire/frame/config"
)

// Config is the monolith's single ambient configuration struct, grounded
// on the teacher's envDefault/env struct-tag convention
// (config.ConfigurationDefault embedding).
type Config struct {
	config.ConfigurationDefault

	// WorkerPoolSize is the number of goroutines the background
	// decision-worker pool keeps warm.
	WorkerPoolSize int `envDefault:"4" env:"WORKER_POOL_SIZE"`
	// WorkerPoolCapacity bounds how many submitted-but-unstarted tasks
	// the pool will queue before Submit starts rejecting work.
	WorkerPoolCapacity int `envDefault:"256" env:"WORKER_POOL_CAPACITY"`

	// EventQueueRef names the queue.Manager reference events.Publisher
	// publishes SpeakerChanged envelopes to. Left empty, the service
	// runs with no external event bus: only in-process observers fire.
	EventQueueRef string `envDefault:"" env:"EVENT_QUEUE_REF"`

	// MetricsEnabled toggles Prometheus instrumentation of the decision
	// loop.
	MetricsEnabled bool `envDefault:"true" env:"METRICS_ENABLED"`

	// RTPAudioLevelExtensionID is the RTP header extension ID the
	// RFC 6464 audio-level extension was negotiated under for incoming
	// tracks (out-of-band, typically via SDP).
	RTPAudioLevelExtensionID int `envDefault:"1" env:"RTP_AUDIO_LEVEL_EXTENSION_ID"`
}
