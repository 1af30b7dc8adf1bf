// Package config loads the YAML configuration shared by the hashlife tools.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/phroun/hashlife/internal/logging"
)

// Config is the tool configuration. Fields missing from a file keep the
// values from Default.
type Config struct {
	Log   LogConfig   `yaml:"log"`
	Store StoreConfig `yaml:"store"`
	View  ViewConfig  `yaml:"view"`
}

// LogConfig mirrors logging.Config.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
	Dir   string `yaml:"dir"`
	Quiet bool   `yaml:"quiet"`
}

// StoreConfig mirrors hashlife.StoreOptions.
type StoreConfig struct {
	CollectThreshold int `yaml:"collect_threshold"`
	InitialCapacity  int `yaml:"initial_capacity"`
}

// ViewConfig describes the viewport printed after a run.
type ViewConfig struct {
	X      int64  `yaml:"x"`
	Y      int64  `yaml:"y"`
	Width  int64  `yaml:"width"`
	Height int64  `yaml:"height"`
	Live   string `yaml:"live"`
	Dead   string `yaml:"dead"`
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Store: StoreConfig{
			InitialCapacity: 4096,
		},
		View: ViewConfig{
			Width:  64,
			Height: 32,
			Live:   "#",
			Dead:   ".",
		},
	}
}

// Load reads the configuration at path over the defaults. An empty path
// returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	if c.View.Width <= 0 || c.View.Height <= 0 {
		return fmt.Errorf("%w: view size %dx%d", ErrInvalid, c.View.Width, c.View.Height)
	}
	if c.View.Live == "" || c.View.Dead == "" {
		return fmt.Errorf("%w: view.live and view.dead must be set", ErrInvalid)
	}
	if c.Store.CollectThreshold < 0 || c.Store.InitialCapacity < 0 {
		return fmt.Errorf("%w: store values must not be negative", ErrInvalid)
	}
	return nil
}

// Logging returns the logging configuration for service.
func (c Config) Logging(service string) logging.Config {
	return logging.Config{
		Level:   c.Log.Level,
		JSON:    c.Log.JSON,
		Quiet:   c.Log.Quiet,
		LogDir:  c.Log.Dir,
		Service: service,
	}
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
