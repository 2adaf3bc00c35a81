package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reloads a config file when it changes on disk and hands each
// successfully validated result to its callbacks. Invalid edits are reported
// on Errors and the previous config stays in effect.
type Watcher struct {
	path     string
	mu       sync.Mutex
	current  *Config
	onChange []func(*Config)
	errChan  chan error

	watcher *fsnotify.Watcher
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewWatcher creates a watcher for path, starting from current.
func NewWatcher(path string, current *Config) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:    path,
		current: current,
		errChan: make(chan error, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// OnChange registers a callback. Register before Start.
func (w *Watcher) OnChange(cb func(*Config)) {
	w.onChange = append(w.onChange, cb)
}

// Errors returns reload failures. Errors are dropped when nobody reads them.
func (w *Watcher) Errors() <-chan error {
	return w.errChan
}

// Config returns the last successfully loaded config.
func (w *Watcher) Config() *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Start watches the directory containing the config file, so editors that
// replace the file on save are still seen.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.watcher = watcher

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	var debounce *time.Timer
	base := filepath.Base(w.path)

	for {
		select {
		case <-w.ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				_ = w.Reload()
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

// Reload loads the file now, as a change event would.
func (w *Watcher) Reload() error {
	res, err := LoadFromPath(w.path)
	if err != nil {
		err = fmt.Errorf("reload config: %w", err)
		w.report(err)
		return err
	}

	w.mu.Lock()
	w.current = res.Config
	callbacks := append([]func(*Config){}, w.onChange...)
	w.mu.Unlock()

	for _, cb := range callbacks {
		cb(res.Config)
	}
	return nil
}

func (w *Watcher) report(err error) {
	select {
	case w.errChan <- err:
	default:
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.cancel()
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
