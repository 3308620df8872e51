package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ca-srg/xbmon/domain"
)

// ConfigWatcher watches the config file for changes and invokes a callback
// after the writer has settled. Editors and the repository itself replace
// the file via rename, so the watch is placed on the directory and filtered
// by file name.
type ConfigWatcher struct {
	configPath string
	debounce   time.Duration
	onChange   func()
	logger     domain.Logger

	fsw      *fsnotify.Watcher
	stopChan chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// NewConfigWatcher creates a watcher for the given config file path
func NewConfigWatcher(configPath string, debounce time.Duration, onChange func(), logger domain.Logger) *ConfigWatcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &ConfigWatcher{
		configPath: configPath,
		debounce:   debounce,
		onChange:   onChange,
		logger:     logger,
		stopChan:   make(chan struct{}),
	}
}

// Start begins watching the config file directory
func (w *ConfigWatcher) Start() error {
	ctx := context.Background()
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(w.configPath)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return err
	}

	w.fsw = fsw
	w.running = true
	w.wg.Add(1)
	go w.watch()

	w.logger.Debug(ctx, "Config watcher started",
		domain.NewField("config_path", w.configPath),
		domain.NewField("debounce", w.debounce.String()))
	return nil
}

// Stop stops the watcher and waits for the watch loop to exit
func (w *ConfigWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopChan)
	if w.fsw != nil {
		_ = w.fsw.Close()
	}
	w.mu.Unlock()

	w.wg.Wait()

	// Reset for potential restart
	w.mu.Lock()
	w.stopChan = make(chan struct{})
	w.fsw = nil
	w.mu.Unlock()
}

// watch loops over filesystem events, coalescing bursts of writes into a
// single callback per settle period
func (w *ConfigWatcher) watch() {
	defer w.wg.Done()
	ctx := context.Background()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.isConfigEvent(event) {
				continue
			}
			// Restart the settle timer on every matching event
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.logger.Info(ctx, "Config file changed, applying new configuration",
				domain.NewField("config_path", w.configPath))
			w.onChange()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "Config watcher error",
				domain.NewField("error", err.Error()))
		}
	}
}

// isConfigEvent reports whether the event touches the watched config file
func (w *ConfigWatcher) isConfigEvent(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(w.configPath) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
