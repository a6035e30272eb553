package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantumnic/iceberg/internal/block"
	"github.com/quantumnic/iceberg/internal/config"
	"github.com/quantumnic/iceberg/internal/engine"
	"github.com/quantumnic/iceberg/internal/logging"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:           "iceberg",
	Short:         "An embedded, versioned key-value store with git-like semantics",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "root directory of the store (default ./iceberg.db)")
}

// Execute runs the root command, printing any error the way §7
// requires: "error: <message>" on stderr, exit code 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the layered configuration and applies the --db
// flag override, if given.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Set("db", dbPath)
	}
	return cfg, nil
}

// openEngine opens an existing store at the resolved --db path.
func openEngine() (*engine.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return engineOpenWith(cfg)
}

// engineOpenWith opens an existing store using an already-resolved
// config, for verbs that need to inspect config values (e.g. the
// compaction policy defaults) before opening the engine.
func engineOpenWith(cfg *config.Config) (*engine.Engine, error) {
	return engine.Open(cfg.DBPath(), engineOptions(cfg))
}

// initEngine creates a store if one doesn't already exist at the
// resolved --db path, then opens it.
func initEngine() (*engine.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return engine.Init(cfg.DBPath(), engineOptions(cfg))
}

func engineOptions(cfg *config.Config) engine.Options {
	codec, ok := block.CodecByName(cfg.BlockCodec())
	if !ok {
		codec = block.PassthroughCodec{}
	}
	logger := logging.New(logging.Options{
		FilePath: cfg.LogFile(),
		Debug:    cfg.LogDebug(),
	})
	return engine.Options{
		Logger:      logger,
		BloomFPRate: cfg.BloomFPRate(),
		Codec:       codec,
	}
}
