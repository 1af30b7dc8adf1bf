package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phroun/hashlife"
	"github.com/phroun/hashlife/internal/config"
	"github.com/phroun/hashlife/internal/logging"
)

// app holds the state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string

	cfg config.Config
	log *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "hashlife",
		Short: "Run Conway's Game of Life on an unbounded board",
		Long: `hashlife advances Game of Life patterns with hash-consed quadtrees,
so regular patterns can be stepped billions of generations at once.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newRunCmd(a),
		newBenchCmd(a),
		newPatternsCmd(),
		newConfigCmd(a),
	)
	return root
}

// setup loads the configuration, applies flag overrides and opens the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	lc := cfg.Logging("hashlife")
	lc.Stderr = cmd.ErrOrStderr()
	a.log, err = logging.New(lc)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.log.Debug("configuration loaded", "path", a.configPath, "level", cfg.Log.Level)
	return nil
}

func (a *app) close() error {
	if a.log == nil {
		return nil
	}
	return a.log.Close()
}

func (a *app) storeOptions() hashlife.StoreOptions {
	return hashlife.StoreOptions{
		Logger:           a.log.Logger,
		CollectThreshold: a.cfg.Store.CollectThreshold,
		InitialCapacity:  a.cfg.Store.InitialCapacity,
	}
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
