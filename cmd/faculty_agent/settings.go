package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/faculty-enricher/internal/config"
	"github.com/jonathan/faculty-enricher/internal/logger"
)

// loadSettings reads the optional config file, lets apply copy explicitly set flags over it,
// then fills the rest from the environment and the package defaults.
func loadSettings(cmd *cobra.Command, apply func(cfg *config.Config)) (config.Config, error) {
	var cfg config.Config
	if globalConfigPath != "" {
		loaded, err := config.LoadConfig(globalConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = globalLogLevel
	}
	if flags.Changed("verbose") {
		cfg.Verbose = globalVerbose
	}
	if apply != nil {
		apply(&cfg)
	}

	cfg = cfg.MergeWithDefaults(config.FromEnv())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger builds the structured logger. Verbose runs log at debug level.
func newLogger(cfg config.Config) (logger.Logger, error) {
	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	return logger.New(logger.Config{Level: level, OutputPaths: []string{"stderr"}})
}

// readNames loads a newline-separated list of person names, skipping blanks and # comments.
func readNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read names file %s: %w", path, err)
	}
	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, nil
}
