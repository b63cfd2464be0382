package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/engine"
	"github.com/vk/gridflow/internal/watcher"
)

// Run executes the main application logic: start the engine, tick until the
// configured bound or interruption, and in watch mode rebuild the graph
// whenever the definition files change.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	var changes <-chan struct{}
	if a.config.Watch {
		w, err := watcher.New(a.config.GraphPath)
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		changes = w.Changes()
	}

	eng := engine.New(a.graph, engine.WithLogger(a.logger))
	if err := eng.Start(ctx, a.config.Interval); err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	a.logger.Info("Engine started.", "interval", a.config.Interval, "ticks", a.config.Ticks)

	// Poll the tick counter at the tick interval when the run is bounded.
	var bound <-chan time.Time
	if a.config.Ticks > 0 {
		t := time.NewTicker(a.config.Interval)
		defer t.Stop()
		bound = t.C
	}

	for {
		select {
		case <-ctx.Done():
			eng.Stop(context.Background())
			a.logger.Info("Engine stopped.", "ticks", eng.Ticks())
			return nil

		case <-bound:
			if eng.Ticks() >= int64(a.config.Ticks) {
				eng.Stop(ctx)
				a.logger.Info("Tick bound reached, engine stopped.", "ticks", eng.Ticks())
				return nil
			}

		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			eng = a.rebuild(ctx, eng)
		}
	}
}

// rebuild reloads the definitions and swaps in a fresh engine. When the new
// definitions fail to load, the previous graph keeps running.
func (a *App) rebuild(ctx context.Context, old *engine.Engine) *engine.Engine {
	a.logger.Info("Graph definitions changed, rebuilding.")

	g, err := loadAndBuild(ctx, a.loader, a.registry, a.config.GraphPath)
	if err != nil {
		a.logger.Error("Rebuild failed, keeping previous graph.", "error", err)
		return old
	}

	old.Stop(ctx)
	a.graph = g
	eng := engine.New(g, engine.WithLogger(a.logger))
	if err := eng.Start(ctx, a.config.Interval); err != nil {
		a.logger.Error("Failed to start rebuilt engine.", "error", err)
		return old
	}
	a.logger.Info("Graph rebuilt and engine restarted.")
	return eng
}
