package config

import (
	"github.com/iscout/scorekeeper/internal/logger"
)

type Config struct {
	Logger  logger.Config `mapstructure:"logger"`
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Match   MatchConfig   `mapstructure:"match"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // seconds
}

// StorageConfig points at the sqlite file backing the key-value store.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// MatchConfig carries session tuning knobs that are not part of the
// operator-entered match configuration.
type MatchConfig struct {
	ExtraTimeSeconds int `mapstructure:"extra_time_seconds"`
}

func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "scorekeeper.db"
	}
	if c.Match.ExtraTimeSeconds <= 0 {
		c.Match.ExtraTimeSeconds = 120
	}
}
