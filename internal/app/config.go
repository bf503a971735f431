package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the server.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	OpsAddr           string        `envconfig:"OPS_ADDR" default:""`
	OpsReadTimeout    time.Duration `envconfig:"OPS_READ_TIMEOUT" default:"15s"`
	OpsWriteTimeout   time.Duration `envconfig:"OPS_WRITE_TIMEOUT" default:"15s"`
	OpsRequestTimeout time.Duration `envconfig:"OPS_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	OseonBaseURL        string        `envconfig:"OSEON_BASE_URL" default:"http://localhost:8999"`
	OseonUsername       string        `envconfig:"OSEON_USERNAME"`
	OseonPassword       string        `envconfig:"OSEON_PASSWORD"`
	OseonAPIVersion     string        `envconfig:"OSEON_API_VERSION" default:"2.0"`
	OseonUserHeader     string        `envconfig:"OSEON_USER_HEADER"`
	OseonTerminalHeader string        `envconfig:"OSEON_TERMINAL_HEADER"`
	OseonTimeout        time.Duration `envconfig:"OSEON_TIMEOUT" default:"30s"`

	DemoMode bool `envconfig:"OSEON_DEMO_MODE" default:"false"`
}

// LoadConfig reads configuration from environment variables. Backend
// credentials are mandatory outside test mode.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if !InTestMode() {
		if cfg.OseonUsername == "" {
			return nil, errors.New("oseon username must be provided")
		}
		if cfg.OseonPassword == "" {
			return nil, errors.New("oseon password must be provided")
		}
	}
	return &cfg, nil
}

// IsProduction returns true when the server runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
