package config

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// NewFlagSet defines the configuration flags on a new flag set.
// The returned apply function copies explicitly set values into c.
func (c *Config) NewFlagSet(name string, output io.Writer) (*flag.FlagSet, func()) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	outputPath := fs.String("output", "", "Output file path (export, embed)")

	// Config file override (handled by LoadConfig before this function is called)
	_ = fs.String("config", "", "Path to config file (default: search standard locations)")

	// External tools
	ffprobe := fs.String("ffprobe", "", "ffprobe executable (default: from config)")
	ffmpeg := fs.String("ffmpeg", "", "ffmpeg executable (default: from config)")

	// Execution settings
	workers := fs.Int("workers", -1, "Number of parallel file loads (0 = auto-detect, default: from config)")

	// Chapter files
	ms := fs.Bool("ms", false, "Write times as H:MM:SS.mmm")
	noMs := fs.Bool("no-ms", false, "Write times as H:MM:SS")
	sidecarExt := fs.String("sidecar-ext", "", "Extension of the chapter file next to a video (default: from config)")

	// Embed settings
	sort := fs.Bool("sort", false, "Sort chapters by time before exporting")
	noSort := fs.Bool("no-sort", false, "Keep chapters in file order when exporting")
	keepMetadata := fs.Bool("keep-metadata", false, "Keep the video's own global metadata")
	noKeepMetadata := fs.Bool("no-keep-metadata", false, "Replace global metadata with the manifest's")

	// Logging and behavior
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error (default: from config)")
	verbose := fs.Bool("verbose", false, "Enable verbose logging")
	dryRun := fs.Bool("dry-run", false, "Print ffmpeg commands without running them")

	apply := func() {
		if *outputPath != "" {
			c.Output = *outputPath
		}

		if *ffprobe != "" {
			c.FFprobePath = *ffprobe
		}
		if *ffmpeg != "" {
			c.FFmpegPath = *ffmpeg
		}

		// -1 means not set
		if *workers >= 0 {
			c.Workers = *workers
		}

		if *ms {
			c.IncludeMilliseconds = true
		}
		if *noMs {
			c.IncludeMilliseconds = false
		}
		if *sidecarExt != "" {
			c.SidecarExt = *sidecarExt
		}

		if *sort {
			c.Embed.SortChapters = true
		}
		if *noSort {
			c.Embed.SortChapters = false
		}
		if *keepMetadata {
			c.Embed.KeepMetadata = true
		}
		if *noKeepMetadata {
			c.Embed.KeepMetadata = false
		}

		if *logLevel != "" {
			c.LogLevel = *logLevel
		}
		if *verbose {
			c.Verbose = true
		}
		if *dryRun {
			c.DryRun = true
		}
	}

	return fs, apply
}

// MergeFromFlags parses args and overrides config values with the flags
// that were set. It returns the remaining positional arguments.
//
// Flags must come before positional arguments.
func (c *Config) MergeFromFlags(name string, args []string) ([]string, error) {
	fs, apply := c.NewFlagSet(name, os.Stderr)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	apply()
	return fs.Args(), nil
}

// PrintConfig prints the effective configuration
func (c *Config) PrintConfig(w io.Writer) {
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(w, "                 Effective Configuration                  ")
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	if c.Output != "" {
		fmt.Fprintf(w, "Output:         %s\n", c.Output)
	}
	fmt.Fprintf(w, "ffprobe:        %s\n", c.FFprobePath)
	fmt.Fprintf(w, "ffmpeg:         %s\n", c.FFmpegPath)
	fmt.Fprintf(w, "Workers:        %d\n", c.Workers)

	fmt.Fprintln(w, "\nChapter Files:")
	fmt.Fprintf(w, "  Milliseconds: %v\n", c.IncludeMilliseconds)
	fmt.Fprintf(w, "  Sidecar Ext:  %s\n", c.SidecarExt)

	fmt.Fprintln(w, "\nEmbed Settings:")
	fmt.Fprintf(w, "  Sort:          %v\n", c.Embed.SortChapters)
	fmt.Fprintf(w, "  Keep Metadata: %v\n", c.Embed.KeepMetadata)
	fmt.Fprintf(w, "  Output Suffix: %s\n", c.Embed.OutputSuffix)

	fmt.Fprintln(w, "\nBehavioral Flags:")
	fmt.Fprintf(w, "  Log Level:     %s\n", c.LogLevel)
	fmt.Fprintf(w, "  Verbose:       %v\n", c.Verbose)
	fmt.Fprintf(w, "  Dry Run:       %v\n", c.DryRun)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
}
