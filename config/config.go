// Package config loads client and server settings from an optional YAML file
// and the process environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultServerAddr = "127.0.0.1:8000"
	DefaultCacheTTL   = 5 * time.Minute
	envPrefix         = "MODELCATALOG"
)

// Config holds all settings. APIBaseURL empty means same origin: catalog
// requests resolve against Origin.
type Config struct {
	APIBaseURL string       `mapstructure:"api_base_url"`
	Origin     string       `mapstructure:"origin"`
	Username   string       `mapstructure:"username"`
	Password   string       `mapstructure:"password"`
	Server     ServerConfig `mapstructure:"server"`
}

// ServerConfig configures the catalog backend.
type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	ProvidersFile string        `mapstructure:"providers_file"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	AuthUsername  string        `mapstructure:"auth_username"`
	AuthPassword  string        `mapstructure:"auth_password"`
}

// BasicAuthEnabled reports whether the server should require credentials.
// Both halves must be set.
func (s ServerConfig) BasicAuthEnabled() bool {
	return s.AuthUsername != "" && s.AuthPassword != ""
}

// OriginURL parses Origin. It returns nil when Origin is empty.
func (c *Config) OriginURL() (*url.URL, error) {
	if c.Origin == "" {
		return nil, nil
	}
	u, err := url.Parse(c.Origin)
	if err != nil {
		return nil, fmt.Errorf("parsing origin %q: %w", c.Origin, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("origin %q must be an absolute URL", c.Origin)
	}
	return u, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Names shared with the rest of the deployment.
	_ = v.BindEnv("api_base_url", envPrefix+"_API_BASE_URL", "API_BASE_URL")
	_ = v.BindEnv("server.auth_username", envPrefix+"_SERVER_AUTH_USERNAME", "WEB_APP_USERNAME")
	_ = v.BindEnv("server.auth_password", envPrefix+"_SERVER_AUTH_PASSWORD", "WEB_APP_PASSWORD")
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_base_url", "")
	v.SetDefault("origin", "")
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.providers_file", "")
	v.SetDefault("server.redis_addr", "")
	v.SetDefault("server.redis_password", "")
	v.SetDefault("server.redis_db", 0)
	v.SetDefault("server.cache_ttl", DefaultCacheTTL)
	v.SetDefault("server.auth_username", "")
	v.SetDefault("server.auth_password", "")
}

// Load reads path (if non-empty) and overlays environment variables. A
// missing file at path is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("checking config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	// Redis stores a zero TTL as "never expire".
	if cfg.Server.CacheTTL <= 0 {
		return nil, fmt.Errorf("server.cache_ttl must be positive, got %s", cfg.Server.CacheTTL)
	}
	return &cfg, nil
}
