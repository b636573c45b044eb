package server

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/initializ/modelcatalog/config"
)

const defaultReloadDebounce = 200 * time.Millisecond

// Watcher rebuilds the registry whenever the providers file changes.
type Watcher struct {
	path     string
	registry *Registry
	cache    Cache
	logger   *zap.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher for the providers file at path. cache may be
// nil.
func NewWatcher(path string, registry *Registry, cache Cache, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		path:     path,
		registry: registry,
		cache:    cache,
		logger:   logger,
		debounce: defaultReloadDebounce,
	}
}

// Reload reads the providers file and swaps the registry's provider set.
// On error the current set stays active.
func (w *Watcher) Reload(ctx context.Context) error {
	pf, err := config.LoadProviders(w.path)
	if err != nil {
		return err
	}
	providers, err := BuildProviders(pf, w.logger)
	if err != nil {
		return err
	}
	w.registry.Replace(providers)
	if w.cache != nil {
		if err := w.cache.Invalidate(ctx); err != nil {
			w.logger.Warn("catalog cache invalidate failed", zap.Error(err))
		}
	}
	w.logger.Info("providers reloaded", zap.Strings("providers", w.registry.Names()))
	return nil
}

// Run watches the providers file until ctx is cancelled. Bursts of events are
// coalesced into a single reload.
func (w *Watcher) Run(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("providers watcher failed", zap.Error(err))
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		w.logger.Warn("providers watcher add failed", zap.String("path", dir), zap.Error(err))
		return
	}

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("providers watcher error", zap.Error(err))
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !sameFile(event.Name, w.path) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		case <-timerChan(timer):
			timer = nil
			if err := w.Reload(ctx); err != nil {
				w.logger.Warn("providers reload failed", zap.Error(err))
			}
		}
	}
}

func sameFile(path, target string) bool {
	if path == "" || target == "" {
		return false
	}
	return filepath.Clean(path) == filepath.Clean(target)
}

func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}
	return timer.C
}
