package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/gridflow/internal/app"
	"github.com/vk/gridflow/internal/hcl"
	"github.com/vk/gridflow/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
}

// RunGraphTest builds an app from an inline graph definition and runs the
// engine for the given number of ticks. Startup panics are captured in Err
// so that negative cases stay assertable. Extra modules are registered on
// top of the built-in kinds.
func RunGraphTest(t *testing.T, graphHCL string, ticks int, modules ...registry.Module) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "grid.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(graphHCL), 0o644))

	appConfig, err := app.NewConfig(app.Config{
		GraphPath: tmpDir,
		LogLevel:  "debug",
		LogFormat: "text",
		Ticks:     ticks,
		Interval:  2 * time.Millisecond,
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, appConfig, hcl.NewLoader(), modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	runErr := testApp.Run(ctx)

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
	}
}

// BuildGraphTest builds an app from an inline graph definition without
// running the engine, for tests that drive ticks and events manually.
func BuildGraphTest(t *testing.T, graphHCL string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "grid.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(graphHCL), 0o644))

	appConfig, err := app.NewConfig(app.Config{
		GraphPath: tmpDir,
		LogLevel:  "debug",
		LogFormat: "text",
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, appConfig, hcl.NewLoader(), modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		App:       testApp,
	}
}
