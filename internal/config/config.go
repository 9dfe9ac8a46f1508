package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/bankbridge/internal/statement"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"bankbridge"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"bankbridge"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
		MaxUploadBytes int64         `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	}

	// Bank values are consumed by the portal automation that produces the export
	// and the pending list. They are carried here so both sides share one .env.
	Bank struct {
		Branch     string `envconfig:"BANK_BRANCH"`
		Account    string `envconfig:"BANK_ACCOUNT"`
		PIN        string `envconfig:"BANK_PIN"`
		AccountRow int    `envconfig:"BANK_ACCOUNT_ROW" default:"0"`
		Mode       string `envconfig:"BANK_MODE" default:"checking"`
	}

	Ledger struct {
		BaseURL        string        `envconfig:"LEDGER_BASE_URL" default:"https://api.youneedabudget.com/v1"`
		APIKey         string        `envconfig:"LEDGER_API_KEY"`
		Budget         string        `envconfig:"LEDGER_BUDGET"`
		Account        string        `envconfig:"LEDGER_ACCOUNT"`
		ImportIDPrefix string        `envconfig:"LEDGER_IMPORT_ID_PREFIX" default:"YNAB"`
		Timeout        time.Duration `envconfig:"LEDGER_TIMEOUT" default:"30s"`
	}

	Diagnostics struct {
		EnableScreenshots bool   `envconfig:"ENABLE_SCREENSHOTS" default:"false"`
		LogLevel          string `envconfig:"LOG_LEVEL" default:"info"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// StatementMode returns the configured export layout.
func (c *Config) StatementMode() (statement.Mode, error) {
	return statement.ParseMode(c.Bank.Mode)
}

// SlogLevel maps LOG_LEVEL onto a slog level. Unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Diagnostics.LogLevel)); err != nil {
		return slog.LevelInfo
	}

	return lvl
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if _, err := cfg.StatementMode(); err != nil {
		return nil, fmt.Errorf("invalid BANK_MODE: %w", err)
	}

	return &cfg, nil
}
