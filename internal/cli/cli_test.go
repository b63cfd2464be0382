package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("positional graph path", func(t *testing.T) {
		cfg, exit, err := Parse([]string{"grid.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "grid.hcl", cfg.GraphPath)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, 100*time.Millisecond, cfg.Interval)
	})

	t.Run("flags override defaults", func(t *testing.T) {
		cfg, exit, err := Parse([]string{
			"--graph", "demo",
			"--log-format", "text",
			"--log-level", "debug",
			"--ticks", "5",
			"--interval-ms", "10",
			"--watch",
		}, &bytes.Buffer{})
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "demo", cfg.GraphPath)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 5, cfg.Ticks)
		assert.Equal(t, 10*time.Millisecond, cfg.Interval)
		assert.True(t, cfg.Watch)
	})

	t.Run("env var fills in when flag absent", func(t *testing.T) {
		t.Setenv("GRIDFLOW_LOG_LEVEL", "warn")
		cfg, exit, err := Parse([]string{"grid.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("flag beats env var", func(t *testing.T) {
		t.Setenv("GRIDFLOW_LOG_LEVEL", "warn")
		cfg, _, err := Parse([]string{"--log-level", "error", "grid.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.LogLevel)
	})

	t.Run("no path prints usage and exits cleanly", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse(nil, &out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("invalid log format", func(t *testing.T) {
		_, _, err := Parse([]string{"--log-format", "yaml", "grid.hcl"}, &bytes.Buffer{})
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, _, err := Parse([]string{"--log-level", "loud", "grid.hcl"}, &bytes.Buffer{})
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, _, err := Parse([]string{"--nope"}, &bytes.Buffer{})
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})
}
