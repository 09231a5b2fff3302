// Package config loads process settings from the environment
package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
)

// EnvPrefix prefixes every variable read by Load
const EnvPrefix = "COC_SHEET_"

// Storage backends for finished characters
const (
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Config holds every setting of the coc-sheet process
type Config struct {
	Log     LogConfig     `envPrefix:"LOG_"`
	Storage StorageConfig `envPrefix:"STORAGE_"`
	HTTP    HTTPConfig    `envPrefix:"HTTP_"`

	// PlayerID owns drafts and characters created from the CLI
	PlayerID string `env:"PLAYER_ID" envDefault:"local"`
	// Locale picks the language of names and sheet labels
	Locale string `env:"LOCALE" envDefault:"en"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Level          string `env:"LEVEL" envDefault:"INFO"`
	Format         string `env:"FORMAT" envDefault:"text"`
	FilePath       string `env:"FILE"`
	FileMaxSizeMB  int    `env:"FILE_MAX_SIZE_MB" envDefault:"10"`
	FileMaxBackups int    `env:"FILE_MAX_BACKUPS" envDefault:"5"`
	FileMaxAgeDays int    `env:"FILE_MAX_AGE_DAYS" envDefault:"30"`
}

// StorageConfig selects and configures the repositories
type StorageConfig struct {
	Backend    string        `env:"BACKEND" envDefault:"redis"`
	RedisURL   string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SQLitePath string        `env:"SQLITE_PATH" envDefault:"coc-sheet.db"`
	DraftTTL   time.Duration `env:"DRAFT_TTL" envDefault:"24h"`
}

// HTTPConfig configures the JSON API server
type HTTPConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads the configuration from COC_SHEET_* variables and validates it
func Load() (*Config, error) {
	return LoadFrom(nil)
}

// LoadFrom reads the configuration from vars instead of the process
// environment when vars is not nil
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	opts := env.Options{Prefix: EnvPrefix}
	if vars != nil {
		opts.Environment = vars
	}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// Validate checks the settings that cannot be expressed as env tags
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateEnum("Log.Level", c.Log.Level, []string{"DEBUG", "INFO", "WARN", "WARNING", "ERROR"}, vb)
	errors.ValidateEnum("Log.Format", c.Log.Format, []string{"text", "json"}, vb)
	errors.ValidateEnum("Storage.Backend", c.Storage.Backend, []string{StorageRedis, StorageSQLite}, vb)

	switch c.Storage.Backend {
	case StorageRedis:
		errors.ValidateRequired("Storage.RedisURL", c.Storage.RedisURL, vb)
	case StorageSQLite:
		errors.ValidateRequired("Storage.SQLitePath", c.Storage.SQLitePath, vb)
	}
	if c.Storage.DraftTTL <= 0 {
		vb.Field("Storage.DraftTTL", "must be positive")
	}

	errors.ValidateRequired("PlayerID", c.PlayerID, vb)
	errors.ValidateRequired("Locale", c.Locale, vb)

	return vb.Build()
}
