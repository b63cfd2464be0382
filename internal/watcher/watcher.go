package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vk/gridflow/internal/ctxlog"
)

// DefaultQuietPeriod is how long the watcher waits after the last change
// before notifying. Editors often write a file several times in quick
// succession; one notification covers the burst.
const DefaultQuietPeriod = 250 * time.Millisecond

// Watcher observes the graph definition paths and reports debounced change
// notifications. Each value on Changes means at least one .hcl file was
// written, created, renamed, or removed since the previous notification.
type Watcher struct {
	fsw         *fsnotify.Watcher
	paths       []string
	quietPeriod time.Duration
	changes     chan struct{}
}

// New creates a watcher over the given files or directories.
func New(paths ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		fsw:         fsw,
		paths:       paths,
		quietPeriod: DefaultQuietPeriod,
		changes:     make(chan struct{}, 1),
	}, nil
}

// Start registers the watched paths and begins processing events. It returns
// once the paths are registered; processing continues until ctx is canceled.
func (w *Watcher) Start(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	for _, p := range w.paths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("cannot watch %s: %w", p, err)
		}
		// Watching the containing directory also catches atomic
		// rename-over-save, which fsnotify reports against the directory
		// entry rather than the original file.
		dir := p
		if !info.IsDir() {
			dir = filepath.Dir(p)
		}
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("cannot watch %s: %w", dir, err)
		}
	}

	logger.Info("Watching graph definitions for changes.", "paths", w.paths)
	go w.run(ctx)
	return nil
}

// Changes returns the debounced notification channel. It is closed when the
// watcher stops.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

func (w *Watcher) run(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	var quiet *time.Timer
	quietC := func() <-chan time.Time {
		if quiet == nil {
			return nil
		}
		return quiet.C
	}

	for {
		select {
		case <-ctx.Done():
			w.fsw.Close()
			close(w.changes)
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				close(w.changes)
				return
			}
			if !relevant(ev) {
				continue
			}
			logger.Debug("Graph file changed.", "file", ev.Name, "op", ev.Op.String())
			if quiet == nil {
				quiet = time.NewTimer(w.quietPeriod)
			} else {
				quiet.Reset(w.quietPeriod)
			}

		case <-quietC():
			quiet = nil
			select {
			case w.changes <- struct{}{}:
			default:
				// A notification is already pending; collapsing is fine.
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				close(w.changes)
				return
			}
			logger.Error("Watcher error.", "error", err)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	return strings.EqualFold(filepath.Ext(ev.Name), ".hcl")
}
