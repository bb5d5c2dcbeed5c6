package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	VariantSeverity     = "severity"
	VariantAccumulation = "accumulation"
)

type Config struct {
	DBHost           string `env:"DB_HOST" envDefault:"localhost"`
	DBPort           string `env:"DB_PORT" envDefault:"5432"`
	DBUser           string `env:"DB_USER" envDefault:"postgres"`
	DBPassword       string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName           string `env:"DB_NAME" envDefault:"duelarena"`
	DBSSLMode        string `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxConnections int    `env:"DB_MAX_CONNECTIONS" envDefault:"10"`

	JWTSecret      string `env:"JWT_SECRET" envDefault:"super-secret-key-change-me"`
	BotAPIKey      string `env:"BOT_API_KEY" envDefault:"bot-api-key-change-me"`
	BotToken       string `env:"BOT_TOKEN"`
	ServerPort     string `env:"SERVER_PORT" envDefault:"8080"`
	WebhookBaseURL string `env:"WEBHOOK_BASE_URL"`
	WebhookSecret  string `env:"WEBHOOK_SECRET"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`

	TopLimit int `env:"TOP_LIMIT" envDefault:"10"`

	Ledger   LedgerConfig   `envPrefix:"LEDGER_"`
	Features FeatureToggles `envPrefix:"FEATURE_"`
}

// LedgerConfig selects the game variant. Severity games rank the lowest value
// first and require a balance not exceeding the stake; accumulation games are
// mirrored.
type LedgerConfig struct {
	Variant      string `env:"VARIANT" envDefault:"severity"`
	InitialValue int    `env:"INITIAL_VALUE" envDefault:"0"`
}

type FeatureToggles struct {
	CheckAcceptor bool `env:"CHECK_ACCEPTOR" envDefault:"true"`
	RankDisplay   bool `env:"RANK_DISPLAY" envDefault:"true"`
	TopUnlimited  bool `env:"TOP_UNLIMITED" envDefault:"true"`
	ShowStats     bool `env:"SHOW_STATS" envDefault:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Ledger.Variant {
	case VariantSeverity, VariantAccumulation:
	default:
		return fmt.Errorf("unknown ledger variant %q", c.Ledger.Variant)
	}
	if c.TopLimit < 1 || c.TopLimit > 100 {
		return fmt.Errorf("TOP_LIMIT must be within 1..100, got %d", c.TopLimit)
	}
	return nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
