package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DebounceInterval coalesces the burst of events editors produce on save
const DebounceInterval = 100 * time.Millisecond

// Watcher reloads the configuration file when it changes
// Valid reloads are handed to onChange; invalid ones are logged and dropped
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	onChange func(Config)

	mu      sync.RWMutex
	current Config

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWatcher watches path and its directory, so atomic rename saves are seen
func NewWatcher(path string, initial Config, logger *zap.Logger, onChange func(Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	return &Watcher{
		path:     path,
		watcher:  fw,
		logger:   logger.Named("config"),
		onChange: onChange,
		current:  initial,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins watching on a new goroutine
func (w *Watcher) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop()
	}()
	w.logger.Info("config watcher started", zap.String("path", w.path))
}

// Stop ends watching and waits for the loop to exit
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		w.wg.Wait()
	})
}

// Current returns the last valid configuration
func (w *Watcher) Current() Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

func (w *Watcher) loop() {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-w.stopCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != filepath.Base(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(DebounceInterval, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config reload rejected, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	old := w.current
	w.current = cfg
	w.mu.Unlock()

	if old.Tuning() != cfg.Tuning() {
		w.logger.Info("tuning changed",
			zap.Duration("construction", cfg.Timing.Construction),
			zap.Duration("destruction", cfg.Timing.Destruction),
			zap.Float64("atom_radius", cfg.Proximity.AtomRadius),
		)
	}
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
