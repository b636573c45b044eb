package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/initializ/modelcatalog/catalog"
	"github.com/initializ/modelcatalog/config"
)

const (
	// LocalProvider tags models discovered from OpenAI-compatible servers
	// unless the provider config names another tag.
	LocalProvider = "local"

	discoveryTimeout = 5 * time.Second
	placeholderKey   = "not-needed"
)

// OpenAICompatibleProvider discovers models from any server exposing the
// OpenAI list-models API: Ollama, LocalAI, LM Studio, vLLM and the like.
type OpenAICompatibleProvider struct {
	name         string
	defaultModel string
	client       openai.Client
	logger       *zap.Logger
}

// NewOpenAICompatibleProvider creates a provider for cfg.BaseURL. Extra
// request options are appended after the defaults.
func NewOpenAICompatibleProvider(cfg config.ProviderConfig, logger *zap.Logger, opts ...option.RequestOption) *OpenAICompatibleProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	name := cfg.Name
	if name == "" {
		name = LocalProvider
	}
	apiKey := cfg.ResolvedAPIKey()
	if apiKey == "" {
		apiKey = placeholderKey
	}

	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/") + "/"),
		option.WithHTTPClient(&http.Client{}),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(discoveryTimeout),
	}

	return &OpenAICompatibleProvider{
		name:         name,
		defaultModel: cfg.DefaultModel,
		client:       openai.NewClient(append(base, opts...)...),
		logger:       logger.With(zap.String("provider", name)),
	}
}

func (p *OpenAICompatibleProvider) Name() string { return p.name }

// AvailableModels lists the server's models. When the server cannot be
// reached or reports no models, the configured default model is returned on
// its own so the catalog is never silently empty.
func (p *OpenAICompatibleProvider) AvailableModels(ctx context.Context) ([]catalog.Entry, error) {
	page, err := p.client.Models.List(ctx)
	if err != nil {
		p.logger.Warn("could not fetch models from API", zap.Error(err))
		return p.fallback(), nil
	}

	entries := make([]catalog.Entry, 0, len(page.Data))
	for _, m := range page.Data {
		if m.ID == "" {
			continue
		}
		entries = append(entries, catalog.Entry{ID: m.ID, Name: m.ID, Provider: p.name})
	}
	if len(entries) == 0 {
		return p.fallback(), nil
	}
	return entries, nil
}

func (p *OpenAICompatibleProvider) fallback() []catalog.Entry {
	return []catalog.Entry{{ID: p.defaultModel, Name: p.defaultModel, Provider: p.name}}
}

func (p *OpenAICompatibleProvider) Close() error { return nil }
