package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultQuietInterval is how long the tree must stay unchanged before a
// batch is emitted.
const DefaultQuietInterval = 250 * time.Millisecond

// PathFilter lets the caller drop events for paths that must not trigger a
// new report, such as the report file itself.
type PathFilter interface {
	ShouldSkip(absolutePath string) bool
}

// Watcher watches every directory under a root and emits debounced batches of
// changes. Directories created after start are added as they appear.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	filter    PathFilter
	rootDir   string
	logger    *slog.Logger
}

// NewWatcher registers rootDir and all of its subdirectories with fsnotify.
// Symlinked directories are not followed, matching the report walk.
func NewWatcher(rootDir string, filter PathFilter, quiet time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if quiet <= 0 {
		quiet = DefaultQuietInterval
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debouncer: NewDebouncer(quiet),
		filter:    filter,
		rootDir:   rootDir,
		logger:    logger,
	}

	if err := w.addTree(rootDir); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

// addTree adds dir and its subdirectories. Unreadable subdirectories are
// logged and skipped; an unreadable root is an error.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			w.logger.Warn("cannot watch directory", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if addErr := w.fsWatcher.Add(path); addErr != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", addErr)
		}
		return nil
	})
}

// Events returns the channel of debounced batches. It is closed by Close.
func (w *Watcher) Events() <-chan []Change {
	return w.debouncer.Output()
}

// Start consumes fsnotify events until the watcher is closed. Run it in its
// own goroutine.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if w.filter != nil && w.filter.ShouldSkip(path) {
		return
	}

	var op Op
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
		if info, err := os.Lstat(path); err == nil && info.IsDir() {
			if err := w.addTree(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
		}
	case event.Has(fsnotify.Write):
		// Content writes never change the listing.
		return
	case event.Has(fsnotify.Remove):
		op = OpRemove
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	w.logger.Debug("tree changed", "path", path, "op", op)
	w.debouncer.Add(path, op)
}

// Close stops watching and closes the Events channel.
func (w *Watcher) Close() error {
	err := w.fsWatcher.Close()
	w.debouncer.Stop()
	return err
}
