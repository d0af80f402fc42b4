package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Generator providers.
const (
	ProviderNone      = "none"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

type Config struct {
	Port            int           `yaml:"port"             env:"INCIDENTLOG_PORT"        env-default:"5001"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"        env-default:"10s"`
	LogLevel        string        `yaml:"log_level"        env:"LOG_LEVEL"               env-default:"info"`
	LogFormat       string        `yaml:"log_format"       env:"LOG_FORMAT"              env-default:"json"`
	DatabaseDriver  string        `yaml:"database_driver"  env:"DATABASE_DRIVER"         env-default:"sqlite"`
	DatabaseURL     string        `yaml:"database_url"     env:"DATABASE_URL"            env-default:"incidents.db"`

	GeneratorProvider string        `yaml:"generator_provider" env:"GENERATOR_PROVIDER" env-default:"none"`
	GeneratorTimeout  time.Duration `yaml:"generator_timeout"  env:"GENERATOR_TIMEOUT"  env-default:"20s"`
	AnthropicAPIKey   string        `yaml:"anthropic_api_key"  env:"ANTHROPIC_API_KEY"`
	AnthropicModel    string        `yaml:"anthropic_model"    env:"ANTHROPIC_MODEL"    env-default:"claude-sonnet-4-20250514"`
	GeminiAPIKey      string        `yaml:"gemini_api_key"     env:"GEMINI_API_KEY"`
	GeminiModel       string        `yaml:"gemini_model"       env:"GEMINI_MODEL"       env-default:"gemini-2.0-flash"`

	RegistryRefresh time.Duration `yaml:"registry_refresh_interval" env:"REGISTRY_REFRESH_INTERVAL" env-default:"5m"`

	NatsURL            string `yaml:"nats_url"             env:"NATS_URL"`
	NatsToken          string `yaml:"nats_token"           env:"NATS_TOKEN"`
	SheetsWebhookURL   string `yaml:"sheets_webhook_url"   env:"SHEETS_WEBHOOK_URL"`
	CORSAllowedOrigins string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

// Load reads configuration from an optional YAML file and the environment.
// Priority: ENV > YAML > defaults. The file is named by CONFIG_PATH
// (fallback "./config.yaml"); a missing fallback file is not an error.
func Load() (Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return Config{}, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535 (got %d)", c.Port)
	}
	switch c.DatabaseDriver {
	case "sqlite", "pgx":
	default:
		return fmt.Errorf("database_driver must be sqlite or pgx (got %q)", c.DatabaseDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("database_url is required")
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text (got %q)", c.LogFormat)
	}
	switch c.GeneratorProvider {
	case ProviderNone:
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("anthropic generator requires ANTHROPIC_API_KEY")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("gemini generator requires GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("generator_provider must be none, anthropic or gemini (got %q)", c.GeneratorProvider)
	}
	if c.GeneratorTimeout <= 0 {
		return fmt.Errorf("generator_timeout must be > 0 (got %s)", c.GeneratorTimeout)
	}
	if c.RegistryRefresh < time.Second {
		return fmt.Errorf("registry_refresh_interval must be at least 1s (got %s)", c.RegistryRefresh)
	}
	return nil
}

// AllowedOrigins splits CORSAllowedOrigins on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
