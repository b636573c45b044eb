package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/initializ/modelcatalog/catalog"
)

// ObserveFunc receives the latency and outcome of each provider query.
type ObserveFunc func(provider string, elapsed time.Duration, err error)

// providerSet is one generation of providers. readers counts Models calls
// still using it.
type providerSet struct {
	providers []Provider
	readers   sync.WaitGroup
}

// Registry holds the active providers in configuration order. The provider
// set can be swapped at runtime while requests are in flight.
type Registry struct {
	mu      sync.RWMutex
	current *providerSet
	logger  *zap.Logger
	observe ObserveFunc
}

// NewRegistry creates a registry over providers.
func NewRegistry(logger *zap.Logger, providers ...Provider) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{current: &providerSet{providers: providers}, logger: logger}
}

// SetObserver installs fn as the per-provider latency hook.
func (r *Registry) SetObserver(fn ObserveFunc) {
	r.mu.Lock()
	r.observe = fn
	r.mu.Unlock()
}

// Names returns the provider names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.current.providers))
	for i, p := range r.current.providers {
		names[i] = p.Name()
	}
	return names
}

// Replace installs a new provider set. The previous set is closed once every
// Models call still using it has returned; Replace blocks until then.
func (r *Registry) Replace(providers []Provider) {
	r.mu.Lock()
	old := r.current
	r.current = &providerSet{providers: providers}
	r.mu.Unlock()

	old.readers.Wait()
	closeAll(old.providers)
}

// Models concatenates every provider's entries in registry order. An id that
// appears more than once keeps its first entry. A failing provider is logged
// and skipped; an error is returned only when every provider fails.
func (r *Registry) Models(ctx context.Context) ([]catalog.Entry, error) {
	r.mu.RLock()
	set := r.current
	set.readers.Add(1)
	observe := r.observe
	r.mu.RUnlock()
	defer set.readers.Done()

	providers := set.providers

	entries := []catalog.Entry{}
	seen := make(map[string]struct{})
	var errs []error
	for _, p := range providers {
		start := time.Now()
		models, err := p.AvailableModels(ctx)
		if observe != nil {
			observe(p.Name(), time.Since(start), err)
		}
		if err != nil {
			r.logger.Warn("provider failed", zap.String("provider", p.Name()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		for _, m := range models {
			if _, dup := seen[m.ID]; dup {
				continue
			}
			seen[m.ID] = struct{}{}
			entries = append(entries, m)
		}
	}
	if len(providers) > 0 && len(errs) == len(providers) {
		return nil, errors.Join(errs...)
	}
	return entries, nil
}

// Close closes every provider.
func (r *Registry) Close() error {
	r.Replace(nil)
	return nil
}
