package app

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// GraphPath points to a single .hcl file or a directory of .hcl files.
	GraphPath string

	LogFormat string
	LogLevel  string

	// Ticks bounds the run: the engine stops after this many ticks. Zero
	// means run until interrupted.
	Ticks int
	// Interval is the delay between ticks.
	Interval time.Duration
	// Watch rebuilds the graph when the definition files change.
	Watch bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}
	if cfg.Ticks < 0 {
		return nil, fmt.Errorf("Ticks must be zero or positive, got %d", cfg.Ticks)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 100 * time.Millisecond
	}
	return &cfg, nil
}
