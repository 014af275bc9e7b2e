// Package config loads the service configuration from defaults, an optional
// YAML file and PHOTOMAP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	BoltBackend   = "bolt"
	SQLiteBackend = "sqlite"
	ValkeyBackend = "valkey"
)

type Config struct {
	Dir       string          `mapstructure:"dir"`
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Log       LogConfig       `mapstructure:"log"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	// Backend holding the geotags: bolt, sqlite or valkey
	Backend string       `mapstructure:"backend"`
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
	Valkey  ValkeyConfig `mapstructure:"valkey"`
}

type SQLiteConfig struct {
	// Path of the database, relative paths are resolved against Dir
	Path string `mapstructure:"path"`
}

type ValkeyConfig struct {
	Addr   string `mapstructure:"addr"`
	Prefix string `mapstructure:"prefix"`
}

type LogConfig struct {
	File        string `mapstructure:"file"`
	Level       string `mapstructure:"level"`
	MemoryLines int    `mapstructure:"memory_lines"`
}

type DiscoveryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Name    string `mapstructure:"name"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dir", "gophotos")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 5)
	v.SetDefault("storage.backend", BoltBackend)
	v.SetDefault("storage.sqlite.path", "geotags.sqlite")
	v.SetDefault("storage.valkey.addr", "localhost:6379")
	v.SetDefault("storage.valkey.prefix", "photomap:")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.memory_lines", 1000)
	v.SetDefault("discovery.enabled", true)
	v.SetDefault("discovery.name", "photomap")
}

// Load reads the configuration. When file is empty a config.yaml in the
// working directory is used if there is one.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// PHOTOMAP_STORAGE_BACKEND -> storage.backend
	v.SetEnvPrefix("PHOTOMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane
func (c *Config) Validate() error {
	var errs []string

	if c.Dir == "" {
		errs = append(errs, "dir is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "server.shutdown_timeout must be positive")
	}
	switch c.Storage.Backend {
	case BoltBackend:
	case SQLiteBackend:
		if c.Storage.SQLite.Path == "" {
			errs = append(errs, "storage.sqlite.path is required")
		}
	case ValkeyBackend:
		if c.Storage.Valkey.Addr == "" {
			errs = append(errs, "storage.valkey.addr is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("storage.backend must be one of bolt, sqlite, valkey, got %q", c.Storage.Backend))
	}
	if c.Log.MemoryLines <= 0 {
		errs = append(errs, "log.memory_lines must be positive")
	}
	if c.Discovery.Enabled && c.Discovery.Name == "" {
		errs = append(errs, "discovery.name is required when discovery is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
