// Package config loads process configuration from the environment once, at
// startup, and hands it to the components that need it.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configurable values for the lead bridge.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080" validate:"required,numeric"`
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`

	CRM  CRMConfig
	Lead LeadConfig
	Mail MailConfig

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// CRMConfig points at the EspoCRM instance. Either APIKey or the
// Username/Password pair is expected; neither is required here because a
// missing credential is a soft, logged condition.
type CRMConfig struct {
	URL      string        `env:"ESPOCRM_URL" envDefault:"https://crm.challengers.tech" validate:"required,url"`
	APIPath  string        `env:"ESPOCRM_API_PATH" envDefault:"/api/v1" validate:"required,startswith=/"`
	APIKey   string        `env:"ESPOCRM_API_KEY"`
	Username string        `env:"ESPOCRM_USERNAME"`
	Password string        `env:"ESPOCRM_PASSWORD"`
	Timeout  time.Duration `env:"CRM_TIMEOUT" envDefault:"15s" validate:"gte=0"`
}

// LeadConfig tunes how leads are labelled in the CRM.
type LeadConfig struct {
	Source                   string `env:"LEAD_SOURCE" envDefault:"Web Site" validate:"required"`
	IncludeSourceDescription bool   `env:"LEAD_SOURCE_DESCRIPTION" envDefault:"false"`
	ExposeLeadID             bool   `env:"EXPOSE_LEAD_ID" envDefault:"true"`
}

// MailConfig enables operator alerts for leads that did not reach the CRM.
// Alerts are off unless Host and AlertTo are both set.
type MailConfig struct {
	Host     string `env:"MAIL_HOST"`
	Port     int    `env:"MAIL_PORT" envDefault:"587" validate:"gt=0,lte=65535"`
	User     string `env:"MAIL_USER"`
	Password string `env:"MAIL_PASS"`
	From     string `env:"MAIL_FROM" envDefault:"no-reply@challengers.tech" validate:"omitempty,email"`
	AlertTo  string `env:"ALERT_EMAIL_TO" validate:"omitempty,email"`
}

// Enabled reports whether alert e-mails can be sent.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.AlertTo != ""
}

// Load reads .env files when present, then the environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env.local", ".env"}
	}
	for _, f := range files {
		// godotenv never overrides variables that are already set.
		_ = godotenv.Load(f)
	}

	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values again, for callers that override fields after
// Load.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
