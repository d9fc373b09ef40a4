package dominantspeaker

import (
	"context"

	"github.com/pitabwire/util"
)

// Observer is called whenever the dominant speaker changes. ssrc is only
// meaningful when ok is true; ok is false when the conference has no
// dominant speaker (e.g. it became empty).
type Observer func(ssrc uint32, ok bool)

// AddObserver registers an observer under id, replacing any observer
// previously registered under the same id. Grounded on the teacher's
// SpeakerDetector.AddListener keyed-map pattern, which sidesteps the fact
// that Go funcs aren't comparable (so a bare add/remove-by-value API, as
// spec.md §6 literally describes, isn't expressible).
func (c *Conference) AddObserver(id string, fn Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers[id] = fn
}

// RemoveObserver unregisters a previously registered observer.
func (c *Conference) RemoveObserver(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.observers, id)
}

// fireChange dispatches a dominant-speaker change to every registered
// observer and, if configured, to the event-bus publisher. It must be
// called without holding c.mu or any Speaker lock (spec.md §4.D, §9).
//
// Each observer is isolated with recover: a panicking observer is logged
// and skipped, never allowed to corrupt engine state or kill the worker
// goroutine (spec.md §7).
func (c *Conference) fireChange(ctx context.Context, newSSRC uint32, ok bool) {
	c.mu.Lock()
	observers := make([]Observer, 0, len(c.observers))
	for _, fn := range c.observers {
		observers = append(observers, fn)
	}
	c.mu.Unlock()

	for _, fn := range observers {
		c.invokeObserver(ctx, fn, newSSRC, ok)
	}

	if c.publisher != nil {
		c.publishChange(ctx, newSSRC, ok)
	}

	if c.metrics != nil {
		c.metrics.dominantChanges.Inc()
	}
}

func (c *Conference) invokeObserver(ctx context.Context, fn Observer, newSSRC uint32, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			util.Log(ctx).WithField("recovered", r).Info("dominantspeaker: observer callback panicked, continuing")
		}
	}()
	fn(newSSRC, ok)
}
