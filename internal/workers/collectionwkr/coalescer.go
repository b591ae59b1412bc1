package collectionwkr

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"exusiai.dev/pocketstats/internal/pkg/debounce"
	"exusiai.dev/pocketstats/internal/pkg/observability"
)

const warmTimeout = time.Second * 10

// Warmer recomputes and memoises the overview of a collector.
type Warmer interface {
	Warm(ctx context.Context, collectorID string) error
}

// Coalescer warms overviews after a burst of updates of one collector has been quiet
// for the debounce window, so that N rapid writes cost one recomputation.
type Coalescer struct {
	mu      sync.Mutex
	wait    time.Duration
	warmer  Warmer
	pending map[string]*debounce.Debouncer[int64]
	closed  bool
}

func NewCoalescer(wait time.Duration, warmer Warmer) *Coalescer {
	return &Coalescer{
		wait:    wait,
		warmer:  warmer,
		pending: map[string]*debounce.Debouncer[int64]{},
	}
}

// Add schedules a warm-up of collectorID, replacing any that is still waiting.
func (c *Coalescer) Add(collectorID string, revision int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	d, ok := c.pending[collectorID]
	if !ok {
		d = debounce.New(c.wait, func(rev int64) {
			c.warm(collectorID, rev)
		})
		c.pending[collectorID] = d
	}
	d.Trigger(revision)
}

// Pending returns the number of collectors with a scheduled warm-up.
func (c *Coalescer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Close runs every scheduled warm-up right away. Later Adds are ignored.
func (c *Coalescer) Close() {
	c.mu.Lock()
	c.closed = true
	pending := c.pending
	c.pending = map[string]*debounce.Debouncer[int64]{}
	c.mu.Unlock()

	for _, d := range pending {
		d.Flush()
		d.Stop()
	}
}

func (c *Coalescer) warm(collectorID string, rev int64) {
	ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
	defer cancel()

	start := time.Now()
	err := c.warmer.Warm(ctx, collectorID)
	observability.CollectionEventConsumeDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		observability.WorkerRecomputes.WithLabelValues("collection", "error").Inc()
		log.Error().
			Err(err).
			Str("evt.name", "worker.collection.warm_failed").
			Str("collector_id", collectorID).
			Int64("revision", rev).
			Msg("failed to warm overview")
	} else {
		observability.WorkerRecomputes.WithLabelValues("collection", "ok").Inc()
		log.Debug().
			Str("evt.name", "worker.collection.warmed").
			Str("collector_id", collectorID).
			Int64("revision", rev).
			Msg("overview warmed")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if d, ok := c.pending[collectorID]; ok && !d.Pending() {
		delete(c.pending, collectorID)
	}
}
