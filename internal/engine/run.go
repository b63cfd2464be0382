package engine

import (
	"context"
	"errors"
	"time"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/node"
)

// Start enters the running state and begins ticking on a fixed interval.
// Every attached RunStateAware node is notified of the transition exactly
// once, regardless of how many ticks follow. Start returns immediately; the
// tick loop runs until Stop or context cancellation.
func (e *Engine) Start(ctx context.Context, interval time.Duration) error {
	if e.running {
		return ErrAlreadyRunning
	}
	e.running = true
	e.stopCh = make(chan struct{})
	e.doneCh = make(chan struct{})

	e.notifyRunState(true)
	ctxlog.FromContext(ctx).Info("Engine started.", "interval", interval)

	go e.loop(ctx, interval)
	return nil
}

// Stop leaves the running state, waits for the loop to drain, and delivers
// the OnStop notification exactly once. Stopping a stopped engine is a no-op.
func (e *Engine) Stop(ctx context.Context) {
	if !e.running {
		return
	}
	close(e.stopCh)
	<-e.doneCh
	e.running = false

	e.notifyRunState(false)
	ctxlog.FromContext(ctx).Info("Engine stopped.", "ticks", e.Ticks())
}

// Running reports whether the engine is between Start and Stop.
func (e *Engine) Running() bool { return e.running }

// loop ticks on the interval until stopped or the context is canceled.
// Per-tick errors (an unevaluable graph) are logged and the loop keeps going:
// the operator may fix the topology while running.
func (e *Engine) loop(ctx context.Context, interval time.Duration) {
	defer close(e.doneCh)
	logger := ctxlog.FromContext(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case <-ctx.Done():
			logger.Debug("Engine loop canceled.", "cause", ctx.Err())
			return
		case <-ticker.C:
			if err := e.Tick(ctx); err != nil && !errors.Is(err, ErrTickInProgress) {
				logger.Warn("Tick failed.", "error", err)
			}
		}
	}
}

// notifyRunState delivers OnStart/OnStop to every attached node implementing
// RunStateAware. Notification faults are contained per node.
func (e *Engine) notifyRunState(started bool) {
	for _, n := range e.g.Nodes() {
		aware, ok := n.Behavior().(node.RunStateAware)
		if !ok {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					e.logger.Error("Run-state notification panic contained.", "node", n.Name(), "started", started, "panic", r)
				}
			}()
			if started {
				aware.OnStart(n)
			} else {
				aware.OnStop(n)
			}
		}()
	}
}
