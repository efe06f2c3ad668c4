package jobs

import (
	"context"
	"time"

	"pickwise/internal/logging"
)

// DefaultDiscardRatio is the share of stale data a value-log file needs
// before it is rewritten.
const DefaultDiscardRatio = 0.5

// Collector is a store that can reclaim space from its value log.
type Collector interface {
	RunGC(discardRatio float64) error
}

// ValueLogGC periodically runs value-log garbage collection on a store.
type ValueLogGC struct {
	store        Collector
	interval     time.Duration
	discardRatio float64
}

// NewValueLogGC creates a new GC job.
func NewValueLogGC(store Collector, interval time.Duration) *ValueLogGC {
	return &ValueLogGC{
		store:        store,
		interval:     interval,
		discardRatio: DefaultDiscardRatio,
	}
}

// Start runs the GC loop until ctx is cancelled. A non-positive interval
// disables the job.
func (g *ValueLogGC) Start(ctx context.Context) {
	if g.interval <= 0 {
		logging.Info().Msg("value log GC disabled")
		return
	}
	logging.Info().Dur("interval", g.interval).Msg("value log GC started")

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("value log GC stopped")
			return
		case <-ticker.C:
			g.runOnce()
		}
	}
}

func (g *ValueLogGC) runOnce() {
	start := time.Now()
	if err := g.store.RunGC(g.discardRatio); err != nil {
		logging.Error().Err(err).Msg("value log GC failed")
		return
	}
	logging.Debug().Dur("took", time.Since(start)).Msg("value log GC finished")
}
