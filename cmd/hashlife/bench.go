package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"golang.org/x/sync/errgroup"

	"github.com/phroun/hashlife"
	"github.com/phroun/hashlife/internal/pattern"
)

type BenchResult struct {
	Name        string
	Duration    time.Duration
	Generations uint64
	Population  uint64
	Nodes       int
	Extra       string
}

func (r BenchResult) String() string {
	line := fmt.Sprintf("%-14s %12v  gen %-14d pop %-10d nodes %d",
		r.Name, r.Duration.Round(time.Microsecond), r.Generations, r.Population, r.Nodes)
	if r.Extra != "" {
		line += "  " + r.Extra
	}
	return line
}

func newBenchCmd(a *app) *cobra.Command {
	var (
		generations uint64
		metrics     bool
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time every built-in pattern, one goroutine each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if metrics {
				shutdown, err := installMeterProvider(cmd)
				if err != nil {
					return err
				}
				defer shutdown()
			}

			fmt.Fprintln(out, "HashLife Benchmark")
			fmt.Fprintln(out, "==================")
			fmt.Fprintf(out, "Generations: %d\n", generations)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
			fmt.Fprintln(out)

			results, err := runBench(cmd.Context(), a, generations)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Fprintln(out, r)
			}
			return nil
		},
	}
	cmd.Flags().Uint64VarP(&generations, "generations", "g", 1<<20, "generations to advance each pattern")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "print OpenTelemetry metrics to stdout when done")
	return cmd
}

// runBench advances every built-in pattern in its own goroutine. Each
// goroutine owns its Store, so nothing is shared but the logger.
func runBench(ctx context.Context, a *app, generations uint64) ([]BenchResult, error) {
	names := pattern.Names()
	results := make([]BenchResult, len(names))

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cells, err := pattern.Builtin(name)
			if err != nil {
				return err
			}
			store := hashlife.NewStore(a.storeOptions())
			world := hashlife.NewWorld(store, cells)

			start := time.Now()
			world.Iterate(generations)
			elapsed := time.Since(start)

			stats := store.Stats()
			results[i] = BenchResult{
				Name:        name,
				Duration:    elapsed,
				Generations: world.Generation(),
				Population:  world.Population(),
				Nodes:       stats.Nodes,
				Extra:       fmt.Sprintf("level %d", store.Level(world.Root())),
			}
			a.log.Debug("bench pattern done", "pattern", name, "duration", elapsed)
			return world.Close()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// installMeterProvider routes the library's instruments to a stdout exporter.
// The returned func flushes and stops the provider.
func installMeterProvider(cmd *cobra.Command) (func(), error) {
	exporter, err := stdoutmetric.New(
		stdoutmetric.WithWriter(cmd.OutOrStdout()),
		stdoutmetric.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("create stdout metric exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	otel.SetMeterProvider(mp)
	return func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "metrics shutdown: %v\n", err)
		}
	}, nil
}
