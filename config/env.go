package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix is the prefix of every environment variable read by MergeFromEnv.
const EnvPrefix = "CHAPTEREDIT_"

// LoadDotEnv loads variables from .env files into the process environment.
// Variables already set are not overridden. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// MergeFromEnv overrides config values from CHAPTEREDIT_* variables.
//
// lookup is usually os.LookupEnv. Empty values are ignored.
func (c *Config) MergeFromEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	var errs []string
	parseBool := func(name string, dst *bool) {
		if v, ok := get(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s%s: invalid boolean '%s'", EnvPrefix, name, v))
				return
			}
			*dst = b
		}
	}

	if v, ok := get("FFPROBE_PATH"); ok {
		c.FFprobePath = v
	}
	if v, ok := get("FFMPEG_PATH"); ok {
		c.FFmpegPath = v
	}
	if v, ok := get("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%sWORKERS: invalid integer '%s'", EnvPrefix, v))
		} else {
			c.Workers = n
		}
	}
	if v, ok := get("SIDECAR_EXT"); ok {
		c.SidecarExt = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = strings.ToLower(v)
	}
	parseBool("INCLUDE_MILLISECONDS", &c.IncludeMilliseconds)
	parseBool("SORT_CHAPTERS", &c.Embed.SortChapters)
	parseBool("KEEP_METADATA", &c.Embed.KeepMetadata)
	parseBool("VERBOSE", &c.Verbose)
	parseBool("DRY_RUN", &c.DryRun)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
