// Package config loads iceberg's layered runtime configuration:
// command-line flag, then ICEBERG_* environment variable, then a
// project-local .iceberg/config.yaml, then $HOME/.iceberg/config.yaml,
// then built-in defaults — mirroring the layering the CLI's own
// config package uses, generalized to this store's settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the resolved runtime settings for one CLI invocation.
type Config struct {
	v *viper.Viper
}

// Load builds a Config, searching for a config file starting from the
// current working directory and falling back to the user's home
// directory. It never returns an error for a missing config file —
// only defaults and environment variables are then used — but does
// return one if a config file exists and fails to parse.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path, ok := findProjectConfig(); ok {
		v.SetConfigFile(path)
	} else if path, ok := findHomeConfig(); ok {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("ICEBERG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("db", "./iceberg.db")
	v.SetDefault("log-file", "")
	v.SetDefault("log-debug", false)
	v.SetDefault("bloom.fp-rate", 0.01)
	v.SetDefault("compaction.max-versions", 0)
	v.SetDefault("compaction.max-age-days", 0)
	v.SetDefault("block.codec", "none")

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return &Config{v: v}, nil
}

func findProjectConfig() (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for dir := cwd; ; {
		path := filepath.Join(dir, ".iceberg", "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func findHomeConfig() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	path := filepath.Join(home, ".iceberg", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	return "", false
}

// DBPath is the default database path when --db is not given.
func (c *Config) DBPath() string { return c.v.GetString("db") }

// LogFile is the rotated log file path, empty meaning "stderr".
func (c *Config) LogFile() string { return c.v.GetString("log-file") }

// LogDebug reports whether engine logging should run at debug level.
func (c *Config) LogDebug() bool { return c.v.GetBool("log-debug") }

// BloomFPRate is the target false-positive rate for new bloom filters.
func (c *Config) BloomFPRate() float64 { return c.v.GetFloat64("bloom.fp-rate") }

// CompactionMaxVersions is the default retention version count, 0 = unlimited.
func (c *Config) CompactionMaxVersions() int { return c.v.GetInt("compaction.max-versions") }

// CompactionMaxAgeDays is the default retention age, 0 = unlimited.
func (c *Config) CompactionMaxAgeDays() int { return c.v.GetInt("compaction.max-age-days") }

// BlockCodec names the default block compression codec for new stores.
func (c *Config) BlockCodec() string { return c.v.GetString("block.codec") }

// Set overrides a configuration key, used to apply parsed CLI flags
// over the layered file/env/default configuration.
func (c *Config) Set(key string, value any) { c.v.Set(key, value) }
