package config

import (
	"fmt"
	"log/slog"
)

var validOutputs = map[string]bool{
	"":         true,
	"auto":     true,
	"text":     true,
	"markdown": true,
	"json":     true,
}

var validDirections = map[string]bool{
	"LeftToRight": true,
	"RightToLeft": true,
	"TopToBottom": true,
	"BottomToTop": true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !validOutputs[c.OutputFormat] {
		return fmt.Errorf("invalid output %q, must be one of: auto, text, markdown, json", c.OutputFormat)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if c.Graph.Direction != "" && !validDirections[c.Graph.Direction] {
		return fmt.Errorf("invalid graph.direction %q, must be one of: LeftToRight, RightToLeft, TopToBottom, BottomToTop", c.Graph.Direction)
	}
	if c.Serve.MaxBodyBytes < 0 {
		return fmt.Errorf("serve.max_body_bytes must not be negative")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level selected by log_level and verbose.
func (c *Config) Level() (slog.Level, error) {
	if c.Verbose {
		return slog.LevelDebug, nil
	}
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
