// Package command provides the Command interface for building and running
// ffmpeg invocations.
package command

import (
	"context"
	"strings"
)

// DefaultFFmpeg is the ffmpeg executable looked up on PATH.
const DefaultFFmpeg = "ffmpeg"

// Command represents an ffmpeg command that can be built, executed, or previewed.
//
// Example usage:
//
//	cmd := embed.NewBuilder("talk.mp4", manifestPath, "talk.chapters.mp4")
//
//	// Preview the command
//	line, _ := cmd.DryRun()
//
//	// Execute the command
//	err := cmd.Run(ctx)
type Command interface {
	// BuildArgs constructs and returns the ffmpeg command arguments as a slice.
	// The returned slice is suitable for exec.CommandContext(ctx, "ffmpeg", args...).
	BuildArgs() []string

	// Run executes the command and blocks until it completes or ctx is
	// cancelled. Returns an error on a non-zero exit code.
	Run(ctx context.Context) error

	// DryRun returns the command line without executing it.
	DryRun() (string, error)

	// GetInputPath returns the primary input file path for this command.
	GetInputPath() string

	// GetOutputPath returns the output file path for this command.
	GetOutputPath() string
}

// Join renders a binary and its arguments as a shell-style command line.
// Arguments containing spaces or quotes are single-quoted.
func Join(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, binary)
	for _, arg := range args {
		parts = append(parts, quote(arg))
	}
	return strings.Join(parts, " ")
}

func quote(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n'\"\\$`") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
