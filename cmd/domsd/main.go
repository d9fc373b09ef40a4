// Command domsd runs the dominant-speaker identification engine as a
// standalone service: an HTTP surface for querying the current dominant
// speaker and Prometheus metrics, with the decision engine itself driven
// by whatever RTP/audio-level source is wired in front of it via
// pkg/rtpaudiolevel.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/pitabwire/frame"
	frameconfig "github.com/pitabwire/frame/config"
	"github.com/pitabwire/frame/workerpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domsdconfig "github.com/activespeaker/domsd/config"
	"github.com/activespeaker/domsd/pkg/dominantspeaker"
	"github.com/activespeaker/domsd/pkg/events"
)

func main() {
	ctx := context.Background()

	cfg, err := frameconfig.LoadWithOIDC[domsdconfig.Config](ctx)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, srv := frame.NewService(
		frame.WithConfig(&cfg),
		frame.WithName("domsd"),
		frame.WithWorkerPoolOptions(
			workerpool.WithPoolCount(cfg.WorkerPoolSize),
			workerpool.WithSinglePoolCapacity(cfg.WorkerPoolCapacity),
		),
	)
	defer srv.Stop(ctx)

	pool, err := srv.WorkManager().GetPool()
	if err != nil {
		log.Fatalf("getting worker pool: %v", err)
	}

	opts := []dominantspeaker.Option{dominantspeaker.WithWorkerPool(pool)}

	if cfg.MetricsEnabled {
		opts = append(opts, dominantspeaker.WithMetrics(dominantspeaker.NewMetrics(prometheus.DefaultRegisterer)))
	}

	if cfg.EventQueueRef != "" {
		pub := events.NewPublisher(srv.QueueManager(), "domsd", cfg.EventQueueRef)
		opts = append(opts, dominantspeaker.WithEventPublisher(pub))
	}

	conf := dominantspeaker.NewConference(ctx, opts...)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/dominant", func(w http.ResponseWriter, r *http.Request) {
		ssrc, ok := conf.GetDominantSpeaker()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			SSRC    uint32 `json:"ssrc,omitempty"`
			Present bool   `json:"present"`
		}{SSRC: ssrc, Present: ok})
	})

	srv.Init(ctx, frame.WithHTTPHandler(mux))

	if err := srv.Run(ctx, ""); err != nil {
		log.Fatalf("service exited: %v", err)
	}
}
