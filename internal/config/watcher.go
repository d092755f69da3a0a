package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadHandler is called when the watched config file changes.
type ReloadHandler func(path string)

// Watcher watches a config file and invokes a handler on change.
// Rapid successive writes (editors often write twice) are debounced.
type Watcher struct {
	mu       sync.Mutex
	fw       *fsnotify.Watcher
	path     string
	handler  ReloadHandler
	debounce time.Duration
	timer    *time.Timer
	done     chan struct{}
	running  bool
}

// NewWatcher creates a watcher for the given config file.
func NewWatcher(path string, handler ReloadHandler) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}

	return &Watcher{
		fw:       fw,
		path:     abs,
		handler:  handler,
		debounce: 200 * time.Millisecond,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. Watching the parent directory instead of the
// file itself survives rename-based saves.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := w.fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.running = true

	go w.loop()
	return nil
}

// loop consumes fsnotify events until Stop.
func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

// scheduleReload arms the debounce timer.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.handler(w.path)
	})
}

// Stop ends watching and releases resources.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return nil
	}
	w.running = false

	close(w.done)
	if w.timer != nil {
		w.timer.Stop()
	}
	return w.fw.Close()
}
