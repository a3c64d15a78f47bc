package config

import (
	"fmt"
	"strings"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errors []string

	if c.FFprobePath == "" {
		errors = append(errors, "ffprobe path is required")
	}
	if c.FFmpegPath == "" {
		errors = append(errors, "ffmpeg path is required")
	}

	// Validate workers (0 is valid, means auto-detect)
	if c.Workers < 0 {
		errors = append(errors, "workers cannot be negative (use 0 for auto-detect)")
	}

	if !isValidExt(c.SidecarExt) {
		errors = append(errors, fmt.Sprintf("sidecar extension '%s' must start with '.' and contain no path separator", c.SidecarExt))
	}

	if !IsValidLogLevel(c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s', must be one of: %s",
			c.LogLevel, strings.Join(LogLevelValues(), ", ")))
	}

	if err := c.Embed.Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("embed config: %v", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Validate checks if embed configuration is valid
func (ec *EmbedConfig) Validate() error {
	if ec.OutputSuffix == "" {
		return fmt.Errorf("output suffix is required")
	}
	if strings.ContainsAny(ec.OutputSuffix, `/\`) {
		return fmt.Errorf("output suffix cannot contain a path separator")
	}
	return nil
}

// isValidExt checks that ext looks like ".txt"
func isValidExt(ext string) bool {
	return len(ext) > 1 && ext[0] == '.' && !strings.ContainsAny(ext, `/\`)
}
