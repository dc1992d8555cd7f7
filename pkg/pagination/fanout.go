package pagination

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	fanOutItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeapi_fanout_items_total",
		Help: "Total number of fan-out item fetches by result",
	}, []string{"result"})

	fanOutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pokeapi_fanout_duration_seconds",
		Help:    "Duration of a complete fan-out batch",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})
)

// Config holds fan-out configuration.
type Config struct {
	// MaxConcurrency caps in-flight fetches. Zero or less means one goroutine per item.
	MaxConcurrency int

	// Timeout bounds each item fetch. Zero means no per-item bound.
	Timeout time.Duration
}

// DefaultConfig returns an unbounded fan-out without per-item timeout.
func DefaultConfig() Config {
	return Config{}
}

// FanOut calls fetch for every key concurrently and returns the results in
// key order. If any fetch fails, FanOut waits for the rest and returns the
// first error with no partial results. Cancelling ctx aborts in-flight fetches.
func FanOut[K any, V any](ctx context.Context, keys []K, cfg Config, fetch func(context.Context, K) (V, error)) ([]V, error) {
	if len(keys) == 0 {
		return []V{}, nil
	}

	start := time.Now()
	defer func() {
		fanOutDuration.Observe(time.Since(start).Seconds())
	}()

	results := make([]V, len(keys))

	// No errgroup context: a failure must not cancel its siblings.
	var g errgroup.Group
	if cfg.MaxConcurrency > 0 {
		g.SetLimit(cfg.MaxConcurrency)
	}

	for i, key := range keys {
		g.Go(func() error {
			itemCtx := ctx
			if cfg.Timeout > 0 {
				var cancel context.CancelFunc
				itemCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
				defer cancel()
			}

			v, err := fetch(itemCtx, key)
			if err != nil {
				fanOutItemsTotal.WithLabelValues("error").Inc()
				return err
			}
			fanOutItemsTotal.WithLabelValues("ok").Inc()
			results[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn().
			Err(err).
			Int("items", len(keys)).
			Dur("duration", time.Since(start)).
			Msg("Fan-out failed")
		return nil, err
	}

	log.Debug().
		Int("items", len(keys)).
		Int("max_concurrency", cfg.MaxConcurrency).
		Dur("duration", time.Since(start)).
		Msg("Fan-out complete")

	return results, nil
}
