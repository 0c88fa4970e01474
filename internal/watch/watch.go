// Package watch reloads the task list when its snapshot file changes on disk.
package watch

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zhubert/taskflow/internal/task"
)

const defaultDebounce = 150 * time.Millisecond

// Watcher listens for writes to a snapshot file and reloads the store.
type Watcher struct {
	store    *task.Store
	path     string
	debounce time.Duration

	fsw *fsnotify.Watcher

	stop     chan struct{}
	done     chan struct{}
	started  bool
	stopOnce sync.Once

	onChange func([]task.Task)
	onError  func(error)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the default debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// OnChange registers a callback fired after a successful reload.
func OnChange(fn func([]task.Task)) Option {
	return func(w *Watcher) { w.onChange = fn }
}

// OnError registers a callback for watch and reload failures.
func OnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// New creates a watcher for the snapshot at path. The parent directory is
// watched because snapshots are replaced by rename.
func New(store *task.Store, path string, opts ...Option) (*Watcher, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	if path == "" {
		return nil, errors.New("snapshot path is empty")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		store:    store,
		path:     filepath.Clean(path),
		debounce: defaultDebounce,
		fsw:      fsw,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	return w, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = w.fsw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.started = true
	go w.loop()
	return nil
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stop)
		err = w.fsw.Close()
		if w.started {
			<-w.done
		}
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.stop:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.emitError(err)
		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	if _, err := w.store.Load(); err != nil {
		w.emitError(err)
		return
	}
	if w.onChange != nil {
		w.onChange(w.store.List())
	}
}

func (w *Watcher) emitError(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}
