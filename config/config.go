// Package config provides types for handling configuration parameters.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Server defines the HTTP listener parameters.
type Server struct {
	Host           string        `json:"host" env:"BIO_SERVER_HOST" env-default:"0.0.0.0"`
	Port           int           `json:"port" env:"BIO_SERVER_PORT" env-default:"8080"`
	UseTls         bool          `json:"use_tls" env:"BIO_SERVER_USE_TLS" env-default:"false"`
	TlsPrivKeyPath string        `json:"tls_priv_key_path" env:"BIO_SERVER_TLS_KEY"`
	TlsCertPath    string        `json:"tls_cert_path" env:"BIO_SERVER_TLS_CERT"`
	ReadTimeout    time.Duration `json:"read_timeout" env:"BIO_SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout   time.Duration `json:"write_timeout" env:"BIO_SERVER_WRITE_TIMEOUT" env-default:"30s"`
	MaxBodyBytes   int64         `json:"max_body_bytes" env:"BIO_MAX_BODY_BYTES" env-default:"10485760"`
}

// Logger defines the log output parameters.
type Logger struct {
	Level  string `json:"level" env:"BIO_LOG_LEVEL" env-default:"info"`
	Format string `json:"format" env:"BIO_LOG_FORMAT" env-default:"text"`
}

// Validation toggles optional rules.
type Validation struct {
	CheckCaptureTime bool `json:"check_capture_time" env:"BIO_CHECK_CAPTURE_TIME" env-default:"false"`
}

// Metrics toggles the Prometheus endpoint.
type Metrics struct {
	Enabled bool `json:"enabled" env:"BIO_METRICS_ENABLED" env-default:"true"`
}

// Config defines configuration parameters for the service.
type Config struct {
	Server     Server     `json:"server_config"`
	Logger     Logger     `json:"logger"`
	Validation Validation `json:"validation"`
	Metrics    Metrics    `json:"metrics"`
}

// Load reads the config file at path, when given, and applies environment
// overrides on top. Without a path only the environment and defaults are
// used.
func Load(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.UseTls && (c.Server.TlsCertPath == "" || c.Server.TlsPrivKeyPath == "") {
		return fmt.Errorf("tls enabled but certificate or key path missing")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid max body size %d", c.Server.MaxBodyBytes)
	}
	switch c.Logger.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Logger.Format)
	}
	return nil
}

// Addr returns the host:port the server listens on.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
