// Package config provides configuration management for the Arcanum
// operations tracker.
//
// Configuration is loaded from:
// 1. config.yaml file (optional)
// 2. Environment variables (standard names like STORE_PATH, LOG_LEVEL)
// 3. Default values
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure.
type Config struct {
	Store StoreConfig `mapstructure:"store"`
	Log   LogConfig   `mapstructure:"log"`
}

// StoreConfig contains embedded database settings.
type StoreConfig struct {
	// Path is the SQLite database file. ":memory:" keeps the store
	// in-process only, which is what the tests use.
	Path string `mapstructure:"path"`

	// BusyTimeout bounds how long a writer waits on a locked database.
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// Load reads configuration from file and environment variables.
// Standard environment variables without prefix: STORE_PATH, LOG_LEVEL, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/arcanum")

	// Maps nested config: store.busy_timeout → STORE_BUSY_TIMEOUT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file is optional, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks for critical configuration errors.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if c.Store.BusyTimeout < 0 {
		return fmt.Errorf("store.busy_timeout must not be negative")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Store
	v.SetDefault("store.path", "arcanum.db")
	v.SetDefault("store.busy_timeout", "5s")

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
