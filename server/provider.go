// Package server implements the catalog backend: it aggregates model lists
// from configured providers and serves them as GET /models.
package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/initializ/modelcatalog/catalog"
	"github.com/initializ/modelcatalog/config"
)

// Provider is a source of selectable models.
type Provider interface {
	Name() string
	AvailableModels(ctx context.Context) ([]catalog.Entry, error)
	Close() error
}

// StaticProvider serves a fixed list of deployments, such as the model
// deployments of a hosted Azure OpenAI resource.
type StaticProvider struct {
	name   string
	models []string
}

// NewStaticProvider creates a provider whose entries use each model name as
// both id and display name, tagged with name.
func NewStaticProvider(name string, models []string) *StaticProvider {
	return &StaticProvider{name: name, models: models}
}

func (p *StaticProvider) Name() string { return p.name }

func (p *StaticProvider) AvailableModels(context.Context) ([]catalog.Entry, error) {
	entries := make([]catalog.Entry, 0, len(p.models))
	for _, m := range p.models {
		entries = append(entries, catalog.Entry{ID: m, Name: m, Provider: p.name})
	}
	return entries, nil
}

func (p *StaticProvider) Close() error { return nil }

// NewProvider builds a provider from its configuration.
func NewProvider(cfg config.ProviderConfig, logger *zap.Logger) (Provider, error) {
	switch cfg.Type {
	case config.ProviderAzure, config.ProviderStatic:
		name := cfg.Name
		if name == "" {
			name = catalog.DefaultProvider
		}
		models := cfg.Models
		if len(models) == 0 {
			models = []string{cfg.DefaultModel}
		}
		return NewStaticProvider(name, models), nil
	case config.ProviderOpenAICompatible:
		return NewOpenAICompatibleProvider(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// BuildProviders builds every provider in a providers file, closing the ones
// already built if a later one fails.
func BuildProviders(pf *config.ProvidersFile, logger *zap.Logger) ([]Provider, error) {
	providers := make([]Provider, 0, len(pf.Providers))
	for i, pc := range pf.Providers {
		p, err := NewProvider(pc, logger)
		if err != nil {
			closeAll(providers)
			return nil, fmt.Errorf("providers[%d]: %w", i, err)
		}
		providers = append(providers, p)
	}
	return providers, nil
}

func closeAll(providers []Provider) {
	for _, p := range providers {
		_ = p.Close()
	}
}
