package config

// Config holds all chapteredit configuration options
type Config struct {
	// Per-invocation output path (export, embed)
	Output string `yaml:"output,omitempty"`

	// External tools
	FFprobePath string `yaml:"ffprobe_path"` // ffprobe executable
	FFmpegPath  string `yaml:"ffmpeg_path"`  // ffmpeg executable

	// Execution settings
	Workers int `yaml:"workers"` // parallel file loads, 0 = auto-detect

	// Chapter files
	IncludeMilliseconds bool   `yaml:"include_milliseconds"` // H:MM:SS.mmm instead of H:MM:SS
	SidecarExt          string `yaml:"sidecar_ext"`          // extension of the chapter file next to a video

	// Embed settings
	Embed EmbedConfig `yaml:"embed"`

	// Logging
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Behavioral flags
	Verbose bool `yaml:"verbose"` // Force debug logging
	DryRun  bool `yaml:"dry_run"` // Print ffmpeg commands without running them
}

// EmbedConfig holds settings for writing chapters into a video
type EmbedConfig struct {
	SortChapters bool   `yaml:"sort_chapters"` // Order chapters by time before embedding
	KeepMetadata bool   `yaml:"keep_metadata"` // Keep the video's global tags instead of the manifest's
	OutputSuffix string `yaml:"output_suffix"` // Appended to the video name when no output is given
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Output: "",

		FFprobePath: "ffprobe",
		FFmpegPath:  "ffmpeg",

		Workers: 0, // Auto-detect CPU count

		IncludeMilliseconds: true,
		SidecarExt:          ".txt",

		Embed: EmbedConfig{
			SortChapters: true,
			KeepMetadata: true,
			OutputSuffix: ".chapters",
		},

		LogLevel: "info",

		Verbose: false,
		DryRun:  false,
	}
}

// Copy creates a copy of the config
func (c *Config) Copy() *Config {
	copy := *c
	copy.Embed = c.Embed
	return &copy
}

// LogLevelValues returns valid log level values
func LogLevelValues() []string {
	return []string{"debug", "info", "warn", "error"}
}

// IsValidLogLevel checks if level is valid
func IsValidLogLevel(level string) bool {
	for _, valid := range LogLevelValues() {
		if level == valid {
			return true
		}
	}
	return false
}
