// Package state records conversion history in SQLite.
package state

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a conversion does not exist.
var ErrNotFound = errors.New("conversion not found")

// Status is the lifecycle state of a conversion.
type Status string

// Conversion statuses.
const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Stats summarizes a produced graph.
type Stats struct {
	Entities int `json:"entities"`
	Nodes    int `json:"nodes"`
	Links    int `json:"links"`
}

// Conversion is one recorded debug view to DGML conversion.
type Conversion struct {
	ID          string     `json:"id"`
	Source      string     `json:"source"`
	Context     string     `json:"context"`
	InputHash   string     `json:"input_hash"`
	Output      string     `json:"output,omitempty"`
	Stats       Stats      `json:"stats"`
	Status      Status     `json:"status"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Duration returns how long the conversion ran, or zero while running.
func (c *Conversion) Duration() time.Duration {
	if c.CompletedAt == nil {
		return 0
	}
	return c.CompletedAt.Sub(c.StartedAt)
}

// Store persists conversion history.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	StartConversion(source, context, hash string) (*Conversion, error)
	CompleteConversion(id string, stats Stats, output string) error
	FailConversion(id, errMsg string) error

	GetConversion(id string) (*Conversion, error)
	ListConversions(limit int) ([]*Conversion, error)
	LatestByHash(hash string) (*Conversion, error)
}
