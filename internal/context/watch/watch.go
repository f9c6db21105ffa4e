// Package watch observes a context document on disk and invokes a handler
// after changes settle.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// Handler is invoked with the document path after a debounced change.
type Handler func(path string)

// Watcher watches a single document, debouncing rapid write bursts into one
// handler invocation.
type Watcher struct {
	path     string
	handler  Handler
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// New creates a watcher for the document at path.
func New(path string, handler Handler) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the parent directory: editors replace files on save, which
	// would orphan a watch on the file itself.
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}
	return &Watcher{
		path:     path,
		handler:  handler,
		debounce: defaultDebounce,
		watcher:  fsWatcher,
	}, nil
}

// Run processes change events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("context document watch error", "error", err)
		case <-timerC:
			timer = nil
			timerC = nil
			w.handler(w.path)
		}
	}
}

// relevant reports whether the event touches the watched document.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	return filepath.Clean(event.Name) == filepath.Clean(w.path)
}
