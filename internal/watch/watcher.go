package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/presubmit-dev/presubmit/internal/backup"
	"github.com/presubmit-dev/presubmit/internal/engine"
	"github.com/presubmit-dev/presubmit/internal/gitio"
)

// Watcher reruns the format stage whenever a formattable file settles after
// being written. One revision directory is claimed per watch session, so
// every rewrite of the session stashes its pre-format copy in the same
// place.
type Watcher struct {
	mu          sync.Mutex
	fsw         *fsnotify.Watcher
	eng         *engine.Engine
	log         *zap.Logger
	repoRoot    string
	revDir      string
	scope       map[string]bool
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// New creates a Watcher over the engine's formattable scope.
func New(eng *engine.Engine, log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		fsw:         fsw,
		eng:         eng,
		log:         log,
		scope:       make(map[string]bool),
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start resolves the formattable scope, watches the directories containing
// it, and spawns the event loop. The scope is fixed for the lifetime of the
// watcher; files created after Start are not picked up.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	started := false
	defer func() {
		if !started {
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
		}
	}()

	repoRoot, err := gitio.RepoRoot()
	if err != nil {
		return err
	}
	w.repoRoot = repoRoot

	revDir, err := backup.Dir(w.eng.Config.BackupRoot)
	if err != nil {
		return err
	}
	w.revDir = revDir

	files, err := w.eng.Formattable()
	if err != nil {
		return err
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		w.scope[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	w.log.Info("watching",
		zap.Int("files", len(w.scope)),
		zap.Int("dirs", len(dirs)),
		zap.String("backups", revDir))
	fmt.Fprintf(w.eng.Out, "Watching %d files. Temporary directory in use: %s\n",
		len(w.scope), revDir)

	started = true
	go w.run(ctx)
	return nil
}

// Stop halts the event loop and waits for it to drain.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.fsw.Close(); err != nil {
		w.log.Warn("closing watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("context cancelled")
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-ticker.C:
			w.processSettled(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	path := filepath.Clean(event.Name)
	if !w.scope[path] {
		return
	}

	w.mu.Lock()
	w.debounceMap[path] = time.Now()
	w.mu.Unlock()
}

// processSettled formats every path whose last event is older than the
// debounce window.
func (w *Watcher) processSettled(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, last := range w.debounceMap {
		if now.Sub(last) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		w.formatPath(ctx, path)
	}
}

// formatPath formats one settled file. Failures are logged and the watcher
// keeps running; a rewrite of already-formatted content is skipped by the
// engine, so the watcher does not feed on its own writes.
func (w *Watcher) formatPath(ctx context.Context, path string) {
	rel, err := filepath.Rel(w.repoRoot, path)
	if err != nil {
		rel = path
	}

	changed, err := w.eng.FormatOne(ctx, w.revDir, w.repoRoot, path)
	if err != nil {
		var te *engine.ToolError
		if errors.As(err, &te) {
			w.log.Warn("format failed",
				zap.String("path", rel),
				zap.Int("code", te.Code),
				zap.String("output", strings.TrimSpace(te.Output)))
			return
		}
		w.log.Warn("format error", zap.String("path", rel), zap.Error(err))
		return
	}
	if changed {
		fmt.Fprintf(w.eng.Out, "Formatted %s\n", rel)
	}
}
