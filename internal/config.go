package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type StorageConfig struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=memory sqlite postgres"`
	Source       string `mapstructure:"source"`
	QuotaBytes   int64  `mapstructure:"quota_bytes" validate:"min=0"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

const (
	StorageDriverMemory   = "memory"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"

	// DefaultQuotaBytes mirrors the 5 MiB budget browsers give local storage.
	DefaultQuotaBytes int64 = 5 * 1024 * 1024
)

// DefaultConfig is used when no config file is present.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{Env: "development"},
		Storage: StorageConfig{
			Driver:       StorageDriverSQLite,
			Source:       "expenses.db",
			QuotaBytes:   DefaultQuotaBytes,
			AutoMigrate:  true,
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{Level: "warn", Format: "text"},
		},
	}
}

// LoadConfigFromEnv builds the config from plain environment variables, for
// deployments that do not ship a config file.
func LoadConfigFromEnv() *Config {
	def := DefaultConfig()
	return &Config{
		App: AppConfig{
			Env: getEnv("APP_ENV", def.App.Env),
		},
		Storage: StorageConfig{
			Driver:       getEnv("STORAGE_DRIVER", def.Storage.Driver),
			Source:       getEnv("STORAGE_SOURCE", def.Storage.Source),
			QuotaBytes:   getEnvAsInt64("STORAGE_QUOTA_BYTES", def.Storage.QuotaBytes),
			AutoMigrate:  getEnvAsBool("STORAGE_AUTO_MIGRATE", def.Storage.AutoMigrate),
			MaxOpenConns: getEnvAsInt("STORAGE_MAX_OPEN_CONNS", def.Storage.MaxOpenConns),
			MaxIdleConns: getEnvAsInt("STORAGE_MAX_IDLE_CONNS", def.Storage.MaxIdleConns),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", def.Observability.Logging.Level),
				Format: getEnv("LOG_FORMAT", def.Observability.Logging.Format),
			},
		},
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *StorageConfig) Validate() error {
	switch c.Driver {
	case StorageDriverMemory:
	case StorageDriverSQLite, StorageDriverPostgres:
		if c.Source == "" {
			return fmt.Errorf("source is required for driver %s", c.Driver)
		}
	default:
		return fmt.Errorf("unknown driver %q: must be one of memory, sqlite, postgres", c.Driver)
	}
	if c.QuotaBytes < 0 {
		return errors.New("quota_bytes cannot be negative")
	}
	if c.MaxIdleConns > c.MaxOpenConns && c.MaxOpenConns > 0 {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level %q", c.Level)
	}
	if c.Format != "json" && c.Format != "text" {
		return fmt.Errorf("invalid format %q", c.Format)
	}
	return nil
}
