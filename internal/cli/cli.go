package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/vk/gridflow/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// settings is the koanf-backed view of every configurable knob.
// Precedence, lowest to highest: defaults, gridflow.toml, GRIDFLOW_* env
// vars, command-line flags.
type settings struct {
	Graph      string `koanf:"graph"`
	LogFormat  string `koanf:"log-format"`
	LogLevel   string `koanf:"log-level"`
	Ticks      int    `koanf:"ticks"`
	IntervalMS int    `koanf:"interval-ms"`
	Watch      bool   `koanf:"watch"`
}

// Parse processes command-line arguments against the layered configuration
// sources. It returns a populated app config, a boolean indicating if the
// program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := pflag.NewFlagSet("gridflow", pflag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
GridFlow - A tick-driven node-graph execution engine.

Usage:
  gridflow [options] [GRAPH_PATH]

Arguments:
  GRAPH_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	flagSet.StringP("graph", "g", "", "Path to the graph file or directory.")
	flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flagSet.Int("ticks", 0, "Stop after this many ticks. 0 runs until interrupted.")
	flagSet.Int("interval-ms", 100, "Delay between ticks in milliseconds.")
	flagSet.Bool("watch", false, "Rebuild the graph when definition files change.")
	help := flagSet.BoolP("help", "h", false, "Show this help text.")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if *help {
		flagSet.Usage()
		return nil, true, nil
	}
	slog.Debug("Arguments parsed successfully.")

	s, err := loadSettings(flagSet)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := s.Graph
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Graph path determined.", "path", path)

	if path == "" {
		slog.Debug("No graph path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(s.LogFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(s.LogLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		GraphPath: path,
		LogFormat: logFormat,
		LogLevel:  logLevel,
		Ticks:     s.Ticks,
		Interval:  time.Duration(s.IntervalMS) * time.Millisecond,
		Watch:     s.Watch,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// loadSettings layers the configuration sources into one settings struct.
func loadSettings(flagSet *pflag.FlagSet) (*settings, error) {
	k := koanf.New(".")

	// The config file is optional.
	_ = k.Load(file.Provider("gridflow.toml"), toml.Parser())

	// GRIDFLOW_LOG_LEVEL=debug maps to the log-level key.
	if err := k.Load(env.Provider("GRIDFLOW_", ".", func(key string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(key, "GRIDFLOW_")), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// posflag contributes flag defaults for keys no other source set.
	if err := k.Load(posflag.Provider(flagSet, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var s settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return &s, nil
}
