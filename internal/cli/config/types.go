// Package config provides configuration management for the leapdgml CLI.
package config

import "time"

// Default configuration values
const (
	DefaultContext      = ""
	DefaultStateFile    = ".leapdgml/state.db"
	DefaultConcurrency  = 4
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel     = "info"
	DefaultDirection    = "LeftToRight"
	DefaultLayout       = "Sugiyama"
	DefaultAddr         = "127.0.0.1:8765"
	DefaultMaxBodyBytes = 4 << 20
	DefaultDebounce     = 200 * time.Millisecond
)

// Config holds all CLI configuration options.
type Config struct {
	Context      string      `koanf:"context" yaml:"context"`
	OutputDir    string      `koanf:"output_dir" yaml:"output_dir"`
	StatePath    string      `koanf:"state_path" yaml:"state_path"`
	History      bool        `koanf:"history" yaml:"history"`
	Concurrency  int         `koanf:"concurrency" yaml:"concurrency"`
	OutputFormat string      `koanf:"output" yaml:"output"`
	Verbose      bool        `koanf:"verbose" yaml:"-"`
	LogLevel     string      `koanf:"log_level" yaml:"log_level"`
	Graph        GraphConfig `koanf:"graph" yaml:"graph"`
	Serve        ServeConfig `koanf:"serve" yaml:"serve"`
	Watch        WatchConfig `koanf:"watch" yaml:"watch"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-" yaml:"-"`
}

// GraphConfig holds document layout defaults.
type GraphConfig struct {
	Direction string `koanf:"direction" yaml:"direction"`
	Layout    string `koanf:"layout" yaml:"layout"`
}

// ServeConfig holds configuration for the API server.
type ServeConfig struct {
	Addr         string `koanf:"addr" yaml:"addr"`
	MaxBodyBytes int64  `koanf:"max_body_bytes" yaml:"max_body_bytes"`
}

// WatchConfig holds configuration for watch mode.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce" yaml:"debounce"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Context:      DefaultContext,
		StatePath:    DefaultStateFile,
		History:      true,
		Concurrency:  DefaultConcurrency,
		OutputFormat: DefaultOutput,
		LogLevel:     DefaultLogLevel,
		Graph:        GraphConfig{Direction: DefaultDirection, Layout: DefaultLayout},
		Serve:        ServeConfig{Addr: DefaultAddr, MaxBodyBytes: DefaultMaxBodyBytes},
		Watch:        WatchConfig{Debounce: DefaultDebounce},
	}
}

// HistoryPath returns the state database path, or empty when history is off.
func (c *Config) HistoryPath() string {
	if !c.History {
		return ""
	}
	return c.StatePath
}

// MarshalYAML writes the debounce as a duration string.
func (w WatchConfig) MarshalYAML() (interface{}, error) {
	return map[string]string{"debounce": w.Debounce.String()}, nil
}
