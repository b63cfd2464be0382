package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridflow/internal/hcl"
)

func writeGraph(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "grid.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApp_RunBounded(t *testing.T) {
	path := writeGraph(t, `
node "constant" "p" {
  properties {
    value = 3
  }
}

node "math" "q" {
  properties {
    op = "mul"
  }
}

link {
  from = "p.out"
  to   = "q.a"
}

link {
  from = "p.out"
  to   = "q.b"
}
`)

	cfg, err := NewConfig(Config{
		GraphPath: path,
		LogLevel:  "error",
		LogFormat: "text",
		Ticks:     2,
		Interval:  5 * time.Millisecond,
	})
	require.NoError(t, err)

	var out bytes.Buffer
	a := NewApp(&out, cfg, hcl.NewLoader())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Run(ctx))

	q, ok := a.Graph().NodeByName("q")
	require.True(t, ok)
	got, _ := q.OutputValue(0).AsBigFloat().Float64()
	assert.Equal(t, 9.0, got)
}

func TestApp_StartupFailures(t *testing.T) {
	t.Run("unknown kind panics", func(t *testing.T) {
		path := writeGraph(t, `node "no_such_kind" "n" {}`)
		cfg, err := NewConfig(Config{GraphPath: path, LogLevel: "error"})
		require.NoError(t, err)
		assert.Panics(t, func() {
			NewApp(&bytes.Buffer{}, cfg, hcl.NewLoader())
		})
	})

	t.Run("cyclic definition panics", func(t *testing.T) {
		path := writeGraph(t, `
node "math" "a" {}
node "math" "b" {}

link {
  from = "a.out"
  to   = "b.a"
}

link {
  from = "b.out"
  to   = "a.a"
}
`)
		cfg, err := NewConfig(Config{GraphPath: path, LogLevel: "error"})
		require.NoError(t, err)
		assert.Panics(t, func() {
			NewApp(&bytes.Buffer{}, cfg, hcl.NewLoader())
		})
	})
}

func TestNewConfig(t *testing.T) {
	t.Run("requires graph path", func(t *testing.T) {
		_, err := NewConfig(Config{})
		assert.Error(t, err)
	})

	t.Run("defaults interval", func(t *testing.T) {
		cfg, err := NewConfig(Config{GraphPath: "x"})
		require.NoError(t, err)
		assert.Equal(t, 100*time.Millisecond, cfg.Interval)
	})

	t.Run("rejects negative ticks", func(t *testing.T) {
		_, err := NewConfig(Config{GraphPath: "x", Ticks: -1})
		assert.Error(t, err)
	})
}

func TestApp_WidgetEditVisibleNextTick(t *testing.T) {
	path := writeGraph(t, `
node "constant" "p" {
  properties {
    value = 1
  }
}
`)

	cfg, err := NewConfig(Config{GraphPath: path, LogLevel: "error", Interval: time.Millisecond})
	require.NoError(t, err)

	a := NewApp(&bytes.Buffer{}, cfg, hcl.NewLoader())
	p, ok := a.Graph().NodeByName("p")
	require.True(t, ok)

	w, ok := p.WidgetByName("value")
	require.True(t, ok)
	w.SetValue(cty.NumberIntVal(42))
	assert.True(t, p.Property("value").RawEquals(cty.NumberIntVal(42)))
}
