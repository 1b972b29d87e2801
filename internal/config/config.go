// Package config holds the process configuration, loaded once at startup and
// threaded explicitly into the constructors that need it.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is parsed from environment variables. Lifetimes are whole seconds.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	AppName string `env:"APP_NAME" envDefault:"Widget API"`
	Env     string `env:"ENV" envDefault:"DEV"`
	DBPath  string `env:"DB_PATH" envDefault:"./data/widget-api.db"`

	SessionSecret         string `env:"SESSION_SECRET" envDefault:"dev-session-secret"`
	SessionTimeoutSeconds int    `env:"SESSION_TIMEOUT_SECONDS" envDefault:"86400"`

	AccessTokenTimeoutSeconds  int `env:"OAUTH2_ACCESS_TOKEN_TIMEOUT_SECONDS" envDefault:"3600"`
	RefreshTokenTimeoutSeconds int `env:"OAUTH2_REFRESH_TOKEN_TIMEOUT_SECONDS" envDefault:"86400"`
	ClientIDBytes              int `env:"OAUTH2_CLIENT_ID_BYTES" envDefault:"16"`
	ClientSecretBytes          int `env:"OAUTH2_CLIENT_SECRET_BYTES" envDefault:"32"`
}

// New loads the configuration from the environment.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config.New: parse env: %w", err)
	}
	if cfg.AccessTokenTimeoutSeconds <= 0 || cfg.RefreshTokenTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("config.New: token timeouts must be positive")
	}
	if cfg.ClientIDBytes <= 0 || cfg.ClientSecretBytes <= 0 {
		return nil, fmt.Errorf("config.New: client credential byte lengths must be positive")
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	if c.Port != "" && c.Port[0] == ':' {
		return c.Port
	}
	return ":" + c.Port
}

func (c *Config) AccessTokenLifetime() time.Duration {
	return time.Duration(c.AccessTokenTimeoutSeconds) * time.Second
}

func (c *Config) RefreshTokenLifetime() time.Duration {
	return time.Duration(c.RefreshTokenTimeoutSeconds) * time.Second
}

func (c *Config) SessionLifetime() time.Duration {
	return time.Duration(c.SessionTimeoutSeconds) * time.Second
}
