// hashlife-repl is an interactive session over a single Game of Life world.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/phroun/hashlife"
	"github.com/phroun/hashlife/internal/config"
	"github.com/phroun/hashlife/internal/logging"
	"github.com/phroun/hashlife/internal/pattern"
)

// REPL holds the state of the interactive session
type REPL struct {
	cfg    config.Config
	log    *logging.Logger
	store  *hashlife.Store
	world  *hashlife.World
	name   string
	reader *bufio.Reader
	out    io.Writer
}

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:          "hashlife-repl",
		Short:        "Interactive HashLife session",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			lc := cfg.Logging("hashlife-repl")
			lc.Stderr = cmd.ErrOrStderr()
			log, err := logging.New(lc)
			if err != nil {
				return err
			}
			defer log.Close()

			repl := newREPL(cfg, log, cmd.InOrStdin(), cmd.OutOrStdout())
			fmt.Fprintln(repl.out, "HashLife REPL - Conway's Game of Life")
			fmt.Fprintln(repl.out, "Type 'help' for available commands, 'quit' to exit")
			fmt.Fprintln(repl.out)
			repl.Run()
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newREPL(cfg config.Config, log *logging.Logger, in io.Reader, out io.Writer) *REPL {
	r := &REPL{
		cfg:    cfg,
		log:    log,
		reader: bufio.NewReader(in),
		out:    out,
	}
	r.store = hashlife.NewStore(hashlife.StoreOptions{
		Logger:           log.Logger,
		CollectThreshold: cfg.Store.CollectThreshold,
		InitialCapacity:  cfg.Store.InitialCapacity,
	})
	return r
}

// Run reads commands until quit or end of input.
func (r *REPL) Run() {
	for {
		fmt.Fprint(r.out, "hashlife> ")
		input, err := r.reader.ReadString('\n')
		if err != nil && input == "" {
			fmt.Fprintln(r.out, "\nGoodbye!")
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !r.handleCommand(input) {
			break
		}
	}

	if r.world != nil {
		r.world.Close()
	}
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		r.printHelp()

	case "quit", "exit":
		fmt.Fprintln(r.out, "Goodbye!")
		return false

	case "load":
		r.cmdLoad(args)

	case "pattern":
		r.cmdPattern(args)

	case "patterns":
		r.cmdPatterns()

	case "step":
		r.cmdStep(args)

	case "show":
		r.cmdShow(args)

	case "stats":
		r.cmdStats()

	case "collect":
		r.cmdCollect()

	default:
		fmt.Fprintf(r.out, "Unknown command: %s. Type 'help' for available commands.\n", cmd)
	}

	return true
}

func (r *REPL) printHelp() {
	help := `
Available Commands:
-------------------

WORLD:
  load <file>             Load a plaintext pattern file
  pattern <name>          Load a built-in pattern
  patterns                List the built-in patterns

SIMULATION:
  step <n>                Advance n generations (default 1)

INSPECTION:
  show [x y w h]          Print the cells around (x, y); defaults from config
  stats                   Show world and store statistics
  collect                 Reclaim nodes no longer reachable from the world

OTHER:
  help                    Show this help message
  quit, exit              Exit the REPL
`
	fmt.Fprintln(r.out, help)
}

func (r *REPL) ensureWorld() bool {
	if r.world == nil {
		fmt.Fprintln(r.out, "No world loaded. Use 'pattern <name>' or 'load <file>'.")
		return false
	}
	return true
}

func (r *REPL) replaceWorld(name string, cells []hashlife.Cell) {
	if r.world != nil {
		r.world.Close()
	}
	r.world = hashlife.NewWorld(r.store, cells)
	r.name = name
	fmt.Fprintf(r.out, "Loaded %s: %d cells, level %d\n",
		name, r.world.Population(), r.store.Level(r.world.Root()))
}

func (r *REPL) cmdLoad(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: load <file>")
		return
	}
	cells, err := pattern.Load(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "Error loading pattern: %v\n", err)
		return
	}
	r.replaceWorld(args[0], cells)
}

func (r *REPL) cmdPattern(args []string) {
	name := pattern.Default
	if len(args) > 0 {
		name = args[0]
	}
	cells, err := pattern.Builtin(name)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	r.replaceWorld(name, cells)
}

func (r *REPL) cmdPatterns() {
	fmt.Fprintf(r.out, "Built-in patterns: %s\n", strings.Join(pattern.Names(), ", "))
}

func (r *REPL) cmdStep(args []string) {
	if !r.ensureWorld() {
		return
	}
	n := uint64(1)
	if len(args) > 0 {
		v, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(r.out, "Invalid generation count: %v\n", err)
			return
		}
		n = v
	}

	start := time.Now()
	r.world.Iterate(n)
	fmt.Fprintf(r.out, "Generation %d (%v), population %d\n",
		r.world.Generation(), time.Since(start).Round(time.Microsecond), r.world.Population())
}

func (r *REPL) cmdShow(args []string) {
	if !r.ensureWorld() {
		return
	}
	view := r.cfg.View
	if len(args) != 0 {
		if len(args) != 4 {
			fmt.Fprintln(r.out, "Usage: show [x y w h]")
			return
		}
		var vals [4]int64
		for i, a := range args {
			v, err := strconv.ParseInt(a, 10, 64)
			if err != nil {
				fmt.Fprintf(r.out, "Invalid number %q: %v\n", a, err)
				return
			}
			vals[i] = v
		}
		view.X, view.Y, view.Width, view.Height = vals[0], vals[1], vals[2], vals[3]
	}
	if view.Width <= 0 || view.Height <= 0 {
		fmt.Fprintln(r.out, "View size must be positive")
		return
	}

	bounds := hashlife.View(view.X, view.Y, view.Width, view.Height)
	cells, err := r.world.Cells(bounds)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	if err := pattern.Render(r.out, bounds, cells, view.Live, view.Dead); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
	}
}

func (r *REPL) cmdStats() {
	if !r.ensureWorld() {
		return
	}
	w := r.world
	s := r.store.Stats()
	b, err := w.Bounds()
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintln(r.out, "World Status:")
	fmt.Fprintf(r.out, "  Pattern:    %s\n", r.name)
	fmt.Fprintf(r.out, "  ID:         %s\n", w.ID())
	fmt.Fprintf(r.out, "  Generation: %d\n", w.Generation())
	fmt.Fprintf(r.out, "  Population: %d\n", w.Population())
	fmt.Fprintf(r.out, "  Root level: %d\n", r.store.Level(w.Root()))
	fmt.Fprintf(r.out, "  Bounds:     x %d..%d, y %d..%d\n", b.MinX, b.MaxX, b.MinY, b.MaxY)
	fmt.Fprintln(r.out, "Store:")
	fmt.Fprintf(r.out, "  Nodes:      %d (%d free slots)\n", s.Nodes, s.FreeSlots)
	fmt.Fprintf(r.out, "  Intern:     %d hits, %d misses\n", s.InternHits, s.InternMisses)
	fmt.Fprintf(r.out, "  Forward:    %d hits, %d misses\n", s.MemoHits, s.MemoMisses)
	fmt.Fprintf(r.out, "  Collected:  %d runs, %d nodes\n", s.Collections, s.Swept)
}

func (r *REPL) cmdCollect() {
	stats := r.store.Collect()
	fmt.Fprintf(r.out, "Collected: %d live, %d swept, %d cache slots cleared (%v)\n",
		stats.Live, stats.Swept, stats.MemosCleared, stats.Duration.Round(time.Microsecond))
}
