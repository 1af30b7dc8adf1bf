package hashlife

import (
	"context"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Package-level meter. Instruments are no-ops until the application installs
// a MeterProvider.
var meter = otel.Meter("github.com/phroun/hashlife")

var (
	iterateLatency metric.Float64Histogram
	generations    metric.Int64Counter
	nodesInterned  metric.Int64Counter
	internHits     metric.Int64Counter
	memoHits       metric.Int64Counter
	memoMisses     metric.Int64Counter
	collections    metric.Int64Counter
	nodesSwept     metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error
		counter := func(name, desc string) metric.Int64Counter {
			if err != nil {
				return nil
			}
			var c metric.Int64Counter
			c, err = meter.Int64Counter(name, metric.WithDescription(desc))
			return c
		}

		iterateLatency, err = meter.Float64Histogram(
			"hashlife_iterate_duration_seconds",
			metric.WithDescription("Duration of World.Iterate calls"),
			metric.WithUnit("s"),
		)
		generations = counter("hashlife_generations_total", "Generations advanced by World.Iterate")
		nodesInterned = counter("hashlife_nodes_interned_total", "Canonical nodes created")
		internHits = counter("hashlife_intern_hits_total", "Intern requests answered by an existing node")
		memoHits = counter("hashlife_forward_memo_hits_total", "Forward calls answered from a node's cache slot")
		memoMisses = counter("hashlife_forward_memo_misses_total", "Forward calls that computed a result")
		collections = counter("hashlife_collections_total", "Completed store collections")
		nodesSwept = counter("hashlife_nodes_swept_total", "Nodes removed by store collections")
		metricsErr = err
	})
	return metricsErr
}

// recordIterate reports one Iterate call, using the store counters taken
// before and after it.
func recordIterate(n uint64, elapsed time.Duration, before, after StoreStats) {
	if initMetrics() != nil {
		return
	}
	ctx := context.Background()
	iterateLatency.Record(ctx, elapsed.Seconds())
	generations.Add(ctx, int64(min(n, math.MaxInt64)))
	nodesInterned.Add(ctx, int64(after.InternMisses-before.InternMisses))
	internHits.Add(ctx, int64(after.InternHits-before.InternHits))
	memoHits.Add(ctx, int64(after.MemoHits-before.MemoHits))
	memoMisses.Add(ctx, int64(after.MemoMisses-before.MemoMisses))
}

func recordCollect(stats CollectStats) {
	if initMetrics() != nil {
		return
	}
	ctx := context.Background()
	collections.Add(ctx, 1)
	nodesSwept.Add(ctx, int64(stats.Swept))
}
