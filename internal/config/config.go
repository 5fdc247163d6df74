// Package config loads drustvo's YAML configuration. Values may reference
// environment variables as ${NAME} or ${NAME:default}; a .env file in the
// working directory is loaded first if present.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type (
	// Config is the full service configuration.
	Config struct {
		Server   ServerConfig   `yaml:"server"`
		Database DatabaseConfig `yaml:"database"`
		Auth     AuthConfig     `yaml:"auth"`
		Logger   LoggerConfig   `yaml:"logger"`
		Metrics  MetricsConfig  `yaml:"metrics"`
		Scoring  ScoringConfig  `yaml:"scoring"`
	}

	// ServerConfig configures the HTTP listener.
	ServerConfig struct {
		Addr            string        `yaml:"addr" validate:"required"`
		ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
		WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
		IdleTimeout     time.Duration `yaml:"idle_timeout" validate:"gt=0"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	}

	// DatabaseConfig points at the SQLite database file.
	DatabaseConfig struct {
		Path string `yaml:"path" validate:"required"`
	}

	// AuthConfig configures organisation sessions. An empty JWTSecret makes
	// the server generate one and keep it in the database.
	AuthConfig struct {
		JWTSecret    string        `yaml:"jwt_secret"`
		TokenTTL     time.Duration `yaml:"token_ttl" validate:"gt=0"`
		SecureCookie bool          `yaml:"secure_cookie"`
	}

	// LoggerConfig configures the zap logger.
	LoggerConfig struct {
		Level      string `yaml:"level" validate:"oneof=debug info warn error"`
		Format     string `yaml:"format" validate:"oneof=json console"`
		FilePath   string `yaml:"file_path"` // empty logs to stderr
		MaxSize    int    `yaml:"max_size" validate:"gte=0"`    // MB
		MaxBackups int    `yaml:"max_backups" validate:"gte=0"` // files
		MaxAge     int    `yaml:"max_age" validate:"gte=0"`     // days
		Compress   bool   `yaml:"compress"`
	}

	// MetricsConfig configures the Prometheus endpoint.
	MetricsConfig struct {
		Enabled   bool   `yaml:"enabled"`
		Path      string `yaml:"path" validate:"required_if=Enabled true,omitempty,startswith=/"`
		Namespace string `yaml:"namespace"`
	}

	// ScoringConfig configures induction scoring.
	ScoringConfig struct {
		// TrustClientTotal stores the submitted total score as is instead of
		// checking it against the weighted sum of the submitted scores.
		TrustClientTotal bool `yaml:"trust_client_total"`
	}
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "drustvo.sqlite3",
		},
		Auth: AuthConfig{
			TokenTTL: 7 * 24 * time.Hour,
		},
		Logger: LoggerConfig{
			Level:      "info",
			Format:     "console",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      "/metrics",
			Namespace: "drustvo",
		},
	}
}

// Load reads the configuration file at path on top of Default. An empty
// path skips the file and returns validated defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(resolveEnv(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every section of the configuration.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var msgs []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return fmt.Errorf("invalid config: %w", err)
}

var envPattern = regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

// resolveEnv replaces ${NAME} and ${NAME:default} placeholders.
func resolveEnv(content []byte) []byte {
	return envPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		m := envPattern.FindSubmatch(match)
		if value, ok := os.LookupEnv(string(m[1])); ok {
			return []byte(value)
		}
		return m[2]
	})
}
