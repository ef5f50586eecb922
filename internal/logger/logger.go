// Package logger builds the application's zerolog logger from config.
package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type Config struct {
	Level          string `json:"level,omitempty" mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format         string `json:"format,omitempty" mapstructure:"format" validate:"oneof=json console"`
	TimeField      string `json:"timeField,omitempty" mapstructure:"time_field"`
	TimeFormat     string `json:"timeFormat,omitempty" mapstructure:"time_format" validate:"oneof=rfc3339 rfc3339nano unix unix_ms"`
	ServiceName    string `json:"serviceName,omitempty" mapstructure:"service_name"`
	ServiceVersion string `json:"serviceVersion,omitempty" mapstructure:"service_version"`
	Env            string `json:"env,omitempty" mapstructure:"env" validate:"oneof=dev staging prod"`
	WithCaller     bool   `json:"withCaller,omitempty" mapstructure:"with_caller"`
}

// New validates the config, applies defaults and returns a ready logger.
func New(cfg *Config) (logger zerolog.Logger, err error) {
	cfg.setDefaults()

	v := validator.New()
	if err = v.Struct(cfg); err != nil {
		return logger, fmt.Errorf("logger config validation error: %w", err)
	}

	zerolog.TimestampFieldName = cfg.TimeField
	zerolog.TimeFieldFormat = timeFormat(cfg.TimeFormat)

	var writer zerolog.LevelWriter
	if cfg.Format == "console" {
		writer = zerolog.MultiLevelWriter(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: timeFormat(cfg.TimeFormat),
		})
	} else {
		writer = zerolog.MultiLevelWriter(os.Stdout)
	}

	logger = zerolog.New(writer).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("version", cfg.ServiceVersion).
		Str("env", cfg.Env).
		Logger()

	if cfg.WithCaller {
		logger = logger.With().Caller().Logger()
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return logger, err
	}
	zerolog.SetGlobalLevel(level)

	return logger, nil
}

func timeFormat(name string) string {
	switch name {
	case "rfc3339":
		return time.RFC3339
	case "unix":
		return zerolog.TimeFormatUnix
	case "unix_ms":
		return zerolog.TimeFormatUnixMs
	default:
		return time.RFC3339Nano
	}
}

func (c *Config) setDefaults() {
	if c.Env == "" {
		c.Env = "prod"
	}
	if c.Level == "" {
		if c.Env == "dev" {
			c.Level = "debug"
		} else {
			c.Level = "info"
		}
	}
	if c.Format == "" {
		if c.Env == "dev" {
			c.Format = "console"
		} else {
			c.Format = "json"
		}
	}
	if c.TimeField == "" {
		c.TimeField = "ts"
	}
	if c.TimeFormat == "" {
		c.TimeFormat = "rfc3339nano"
	}
	if !c.WithCaller && c.Env == "dev" {
		c.WithCaller = true
	}
	if c.ServiceName == "" {
		c.ServiceName = "scorekeeper"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "0.1.0"
	}
}
