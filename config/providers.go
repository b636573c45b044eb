package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Provider types understood by the catalog backend.
const (
	ProviderAzure            = "azure"
	ProviderStatic           = "static"
	ProviderOpenAICompatible = "openai-compatible"
)

// ProvidersFile is the top-level providers YAML document.
type ProvidersFile struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig describes one model source.
type ProviderConfig struct {
	Type         string   `yaml:"type"`                    // azure, static, openai-compatible
	Name         string   `yaml:"name,omitempty"`          // provider tag on catalog entries
	Models       []string `yaml:"models,omitempty"`        // azure/static deployment names
	DefaultModel string   `yaml:"default_model,omitempty"` // first entry / fallback model
	BaseURL      string   `yaml:"base_url,omitempty"`      // openai-compatible endpoint
	APIKey       string   `yaml:"api_key,omitempty"`
	APIKeyEnv    string   `yaml:"api_key_env,omitempty"` // read the key from this env var
}

// ResolvedAPIKey returns APIKey, or the value of APIKeyEnv when APIKey is empty.
func (p ProviderConfig) ResolvedAPIKey() string {
	if p.APIKey != "" {
		return p.APIKey
	}
	if p.APIKeyEnv != "" {
		return os.Getenv(p.APIKeyEnv)
	}
	return ""
}

// LoadProviders reads and validates a providers file.
func LoadProviders(path string) (*ProvidersFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading providers file: %w", err)
	}
	return ParseProviders(data)
}

// ParseProviders parses and validates providers YAML.
func ParseProviders(data []byte) (*ProvidersFile, error) {
	var pf ProvidersFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing providers file: %w", err)
	}
	for i, p := range pf.Providers {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("providers[%d]: %w", i, err)
		}
	}
	return &pf, nil
}

func (p ProviderConfig) validate() error {
	switch p.Type {
	case ProviderAzure, ProviderStatic:
		if len(p.Models) == 0 && p.DefaultModel == "" {
			return fmt.Errorf("%s provider needs models or default_model", p.Type)
		}
	case ProviderOpenAICompatible:
		if p.BaseURL == "" {
			return fmt.Errorf("openai-compatible provider needs base_url")
		}
		if p.DefaultModel == "" {
			return fmt.Errorf("openai-compatible provider needs default_model")
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown provider type %q", p.Type)
	}
	return nil
}
