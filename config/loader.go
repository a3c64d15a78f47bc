package config

import (
	"fmt"
	"os"
	"runtime"
)

// LoadConfig loads configuration with priority:
// CLI flags > environment (.env included) > Config file > Defaults
//
// name is the flag set name used in error messages. It returns the
// positional arguments left after the flags.
func LoadConfig(name string, args []string) (*Config, []string, error) {
	// 1. Start with defaults
	cfg := DefaultConfig()

	// 2. Check if -config flag was provided (quick parse to extract it)
	configPath := ""
	for i, arg := range args {
		if (arg == "-config" || arg == "--config") && i+1 < len(args) {
			configPath = args[i+1]
			break
		}
	}

	// If no config flag, try to find config file in standard locations
	if configPath == "" {
		configPath = FindConfigFile()
	}

	// Load config file if found
	if configPath != "" {
		fileCfg, err := LoadConfigFile(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		// Merge file config (overwrites defaults)
		cfg = fileCfg
	}

	// 3. Environment
	if err := LoadDotEnv(); err != nil {
		return nil, nil, err
	}
	if err := cfg.MergeFromEnv(os.LookupEnv); err != nil {
		return nil, nil, err
	}

	// 4. Merge CLI flags (highest priority, overwrites everything)
	rest, err := cfg.MergeFromFlags(name, args)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}

	// Validate before auto-detect so a negative value is still reported
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	// Auto-detect workers if set to 0
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	return cfg, rest, nil
}
