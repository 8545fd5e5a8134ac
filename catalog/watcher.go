package catalog

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultReloadDelay batches the bursts of events editors produce on save.
const DefaultReloadDelay = 500 * time.Millisecond

// Watcher reloads a Catalog whenever its override file changes.
type Watcher struct {
	log     *zap.SugaredLogger
	catalog *Catalog
	path    string

	fsw      *fsnotify.Watcher
	debounce func(func())
	reloads  chan struct{}

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewWatcher prepares a watcher for path. Nothing is watched until Start.
func NewWatcher(log *zap.SugaredLogger, c *Catalog, path string, delay time.Duration) *Watcher {
	if delay <= 0 {
		delay = DefaultReloadDelay
	}
	return &Watcher{
		log:      log,
		catalog:  c,
		path:     filepath.Clean(path),
		debounce: debounce.New(delay),
		reloads:  make(chan struct{}, 1),
	}
}

// Start watches the directory holding the file, so editors that save by
// rename are still picked up.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}

	w.fsw = fsw
	w.done = make(chan struct{})
	w.running = true
	go w.run()

	w.log.Infow("Watching catalog", "path", w.path)
	return nil
}

// Stop closes the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return nil
	}
	w.running = false

	err := w.fsw.Close()
	<-w.done
	// drop a reload that is still waiting on the debounce timer
	w.debounce(func() {})
	return err
}

// Reloaded receives a value after every successful reload.
func (w *Watcher) Reloaded() <-chan struct{} {
	return w.reloads
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.debounce(w.reload)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warnw("Catalog watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	if err := w.catalog.Reload(w.path); err != nil {
		w.log.Errorw("Failed to reload catalog, keeping previous songs", "path", w.path, "error", err)
		return
	}
	w.log.Infow("Reloaded catalog", "path", w.path, "songs", len(w.catalog.Songs()))
	select {
	case w.reloads <- struct{}{}:
	default:
	}
}

// hooks adapts the watcher to fx lifecycle callbacks.
func (w *Watcher) onStart(context.Context) error { return w.Start() }
func (w *Watcher) onStop(context.Context) error  { return w.Stop() }
