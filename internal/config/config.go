// Package config loads settings for the sqlstr command.
//
// Settings are layered, lowest priority first:
//
//   - struct defaults
//   - an optional YAML file
//   - environment variables prefixed with SQLSTR_
//
// Command-line flags are applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "SQLSTR_"

// ConfigPathEnvVar overrides the config file path when no path is given.
const ConfigPathEnvVar = EnvPrefix + "CONFIG"

// Config holds settings for a single run of the command.
type Config struct {
	// Op is the statement kind to generate.
	Op string `koanf:"op" validate:"required,oneof=insert update select where delete"`

	// Table is the target table. Required by every operation.
	Table string `koanf:"table" validate:"required"`

	// Input is the path of the JSON records file. "-" reads stdin.
	Input string `koanf:"input" validate:"required"`

	// DB is an optional SQLite database file. When set, statements are executed.
	DB string `koanf:"db"`

	// Where is an optional "col=value" predicate for update, select and delete.
	Where string `koanf:"where" validate:"omitempty,contains=="`

	// Strict fails on record fields of unsupported types.
	Strict bool `koanf:"strict"`

	// Timeout bounds the whole database session.
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`

	LogLevel  string `koanf:"log_level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	LogFormat string `koanf:"log_format" validate:"oneof=json console"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Op:        "insert",
		Input:     "-",
		Timeout:   30 * time.Second,
		LogLevel:  "info",
		LogFormat: "console",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for missing or malformed settings.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load builds the configuration from defaults, the YAML file at path (if
// any) and environment variables. An empty path falls back to the file
// named by SQLSTR_CONFIG. The result is not validated, since flags may
// still fill in required settings.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// SQLSTR_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == "config" {
		return ""
	}
	return key
}

// SplitWhere splits a "col=value" predicate. Both halves are trimmed.
func SplitWhere(src string) (col, val string, ok bool) {
	col, val, ok = strings.Cut(src, "=")
	col = strings.TrimSpace(col)
	if !ok || col == "" {
		return "", "", false
	}
	return col, strings.TrimSpace(val), true
}
