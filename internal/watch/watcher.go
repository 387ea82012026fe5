// Package watch rebuilds the site when its inputs change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/pagebuild/internal/errors"
	"git.home.luguber.info/inful/pagebuild/internal/logfields"
)

// DefaultQuietWindow is how long the watcher waits after the last event
// before rebuilding.
const DefaultQuietWindow = 300 * time.Millisecond

// RebuildFunc runs one build.
type RebuildFunc func(ctx context.Context) error

// Config configures a Watcher.
type Config struct {
	// Roots are files or directories to watch. Directories are watched recursively.
	Roots []string

	// Ignore lists directories whose events never trigger a rebuild,
	// typically the output dir.
	Ignore []string

	QuietWindow time.Duration
}

// Watcher coalesces bursts of filesystem events into single rebuilds.
type Watcher struct {
	cfg     Config
	rebuild RebuildFunc
	watcher *fsnotify.Watcher
	ignore  []string

	readyOnce sync.Once
	ready     chan struct{}
}

// New creates a Watcher and registers every root with fsnotify.
func New(cfg Config, rebuild RebuildFunc) (*Watcher, error) {
	if rebuild == nil {
		return nil, errors.ValidationFailed("rebuild", "rebuild func is required")
	}
	if len(cfg.Roots) == 0 {
		return nil, errors.ValidationFailed("roots", "at least one path to watch is required")
	}
	if cfg.QuietWindow <= 0 {
		cfg.QuietWindow = DefaultQuietWindow
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{cfg: cfg, rebuild: rebuild, watcher: fw, ready: make(chan struct{})}
	for _, dir := range cfg.Ignore {
		abs, err := filepath.Abs(dir)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to resolve ignored path %s: %w", dir, err)
		}
		w.ignore = append(w.ignore, abs)
	}

	for _, root := range cfg.Roots {
		if err := w.addRoot(root); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Ready is closed once Run is consuming events.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

func (w *Watcher) addRoot(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve watch path %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("Watch path does not exist, skipping", logfields.Path(abs))
			return nil
		}
		return errors.IOFailure("stat", abs, err)
	}
	if !info.IsDir() {
		// Editors replace files by rename, so watch the parent instead.
		return w.addDir(filepath.Dir(abs))
	}
	return filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) || (path != abs && strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		return w.addDir(path)
	})
}

func (w *Watcher) addDir(dir string) error {
	if w.ignored(dir) {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	slog.Debug("Watching directory", logfields.Path(dir))
	return nil
}

func (w *Watcher) ignored(path string) bool {
	for _, dir := range w.ignore {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run consumes events until ctx is cancelled, rebuilding once per quiet
// window. Rebuild errors are logged and never stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	timer := time.NewTimer(w.cfg.QuietWindow)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	w.readyOnce.Do(func() { close(w.ready) })

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("Change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRoot(event.Name); err != nil {
						slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
					}
				}
			}
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.cfg.QuietWindow)
			pending = true

		case <-timer.C:
			pending = false
			slog.Info("Inputs changed, rebuilding")
			if err := w.rebuild(ctx); err != nil {
				slog.Error("Rebuild failed", logfields.Error(err))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if w.ignored(event.Name) {
		return false
	}
	base := filepath.Base(event.Name)
	return !strings.HasPrefix(base, ".") && !strings.HasSuffix(base, "~")
}
