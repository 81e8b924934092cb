package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string `env:"PORT" envDefault:"5000"`
	Env  string `env:"ENV" envDefault:"development"`

	// Chat backend (LLM bridge)
	BackendURL   string `env:"PY_BACKEND" envDefault:"http://127.0.0.1:8000"`
	PublicAPIKey string `env:"PUBLIC_API_KEY" envDefault:"secret"`

	// Proxy limits
	ProxyTimeout     time.Duration `env:"PROXY_TIMEOUT" envDefault:"30s"`
	ProxyMaxInflight int           `env:"PROXY_MAX_INFLIGHT" envDefault:"64"`

	// Resend mail API
	ResendAPIKey  string   `env:"RESEND_API_KEY"`
	ResendBaseURL string   `env:"RESEND_BASE_URL" envDefault:"https://api.resend.com"`
	ContactFrom   string   `env:"CONTACT_FROM" envDefault:"Website <admin@athenalabo.com>"`
	ContactTo     []string `env:"CONTACT_TO" envSeparator:"," envDefault:"vareca@live.com"`

	// Static assets
	MediaDir string `env:"MEDIA_DIR" envDefault:"/media"`
	DistDir  string `env:"DIST_DIR" envDefault:"./dist"`

	// Chat client polling
	ChatPollInterval time.Duration `env:"CHAT_POLL_INTERVAL" envDefault:"2s"`
	ChatPollAttempts int           `env:"CHAT_POLL_ATTEMPTS" envDefault:"30"`

	// Frontend
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
