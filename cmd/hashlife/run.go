package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/phroun/hashlife"
	"github.com/phroun/hashlife/internal/pattern"
)

type runOptions struct {
	generations uint64
	x, y        int64
	width       int64
	height      int64
}

func newRunCmd(a *app) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run [PATTERN|FILE]",
		Short: "Advance a pattern and print a viewport of the result",
		Long: `Run loads a built-in pattern or a plaintext pattern file, advances it
by the requested number of generations and prints the cells around the view
center. With no argument the default pattern is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := a.cfg.View
			flags := cmd.Flags()
			if flags.Changed("x") {
				view.X = opts.x
			}
			if flags.Changed("y") {
				view.Y = opts.y
			}
			if flags.Changed("width") {
				view.Width = opts.width
			}
			if flags.Changed("height") {
				view.Height = opts.height
			}
			if view.Width <= 0 || view.Height <= 0 {
				return fmt.Errorf("view size must be positive, got %dx%d", view.Width, view.Height)
			}

			var arg string
			if len(args) > 0 {
				arg = args[0]
			}
			cells, err := pattern.Resolve(arg)
			if err != nil {
				return err
			}

			store := hashlife.NewStore(a.storeOptions())
			world := hashlife.NewWorld(store, cells)
			defer world.Close()

			start := time.Now()
			world.Iterate(opts.generations)
			elapsed := time.Since(start)

			bounds := hashlife.View(view.X, view.Y, view.Width, view.Height)
			visible, err := world.Cells(bounds)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := pattern.Render(out, bounds, visible, view.Live, view.Dead); err != nil {
				return err
			}
			stats := store.Stats()
			fmt.Fprintf(out, "generation %d  population %d  level %d  nodes %d\n",
				world.Generation(), world.Population(), store.Level(world.Root()), stats.Nodes)

			a.log.Info("run complete",
				"world", world.ID().String(),
				"generations", opts.generations,
				"duration", elapsed,
				"nodes", stats.Nodes,
				"memo_hits", stats.MemoHits,
				"memo_misses", stats.MemoMisses)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Uint64VarP(&opts.generations, "generations", "g", 0, "number of generations to advance")
	flags.Int64Var(&opts.x, "x", 0, "view center x (default from config)")
	flags.Int64Var(&opts.y, "y", 0, "view center y (default from config)")
	flags.Int64Var(&opts.width, "width", 0, "view width in cells (default from config)")
	flags.Int64Var(&opts.height, "height", 0, "view height in cells (default from config)")
	return cmd
}

func newPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List the built-in patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range pattern.Names() {
				cells, err := pattern.Builtin(name)
				if err != nil {
					return err
				}
				marker := ""
				if name == pattern.Default {
					marker = " (default)"
				}
				fmt.Fprintf(out, "%-12s %4d cells%s\n", name, len(cells), marker)
			}
			return nil
		},
	}
}
