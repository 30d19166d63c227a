package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce absorbs the burst of events editors emit for a single save.
const reloadDebounce = 500 * time.Millisecond

// Watcher reloads the config file into a Manager whenever it changes on disk.
type Watcher struct {
	watcher       *fsnotify.Watcher
	manager       *Manager
	path          string
	debounce      time.Duration
	debounceTimer *time.Timer
	debounceMutex sync.Mutex
	stopOnce      sync.Once
	stopChan      chan struct{}
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(manager *Manager, path string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  watcher,
		manager:  manager,
		path:     filepath.Clean(path),
		debounce: reloadDebounce,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins watching. The parent directory is watched so that editors
// replacing the file through a rename are still noticed.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	slog.Info("Watching configuration file", "path", w.path)
	go w.watchLoop(ctx)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.debounceMutex.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
			w.debounceTimer = nil
		}
		w.debounceMutex.Unlock()
		w.watcher.Close()
	})
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Config watcher error", "error", err)
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	w.debounceMutex.Lock()
	defer w.debounceMutex.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, w.reload)
}

// reload keeps the running configuration when the edited file is invalid.
func (w *Watcher) reload() {
	cfg, err := read(w.path)
	if err != nil {
		slog.Error("Ignoring invalid configuration change", "path", w.path, "error", err)
		return
	}
	slog.Info("Configuration reloaded", "path", w.path)
	w.manager.Update(cfg)
}
