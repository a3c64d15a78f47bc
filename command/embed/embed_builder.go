// Package embed builds the ffmpeg command that writes a chapter manifest
// into a copy of a video without re-encoding.
package embed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"

	"chapteredit/command"
	"chapteredit/ffmpeg"
	"chapteredit/models"
)

// Builder constructs ffmpeg commands that mux an FFMETADATA1 chapter
// manifest into a video.
//
// All streams are copied from the video. Chapters and global metadata
// come from the manifest.
type Builder struct {
	binary       string
	videoInput   string
	manifestPath string
	outputPath   string

	keepMetadata bool
	metadata     map[string]string
	extraArgs    []string

	// Progress tracking
	totalDuration    int64
	progressCallback models.ProgressCallback
}

// NewBuilder creates a new embed builder.
// videoInput: source video (required)
// manifestPath: FFMETADATA1 file, see ffmeta.WriteTemp (required)
// outputPath: destination file (required, must differ from videoInput)
func NewBuilder(videoInput, manifestPath, outputPath string) *Builder {
	return &Builder{
		binary:       command.DefaultFFmpeg,
		videoInput:   videoInput,
		manifestPath: manifestPath,
		outputPath:   outputPath,
		metadata:     make(map[string]string),
	}
}

// SetBinary sets the ffmpeg executable. Empty keeps the default.
func (b *Builder) SetBinary(binary string) *Builder {
	if binary != "" {
		b.binary = binary
	}
	return b
}

// SetKeepMetadata sets whether the video's own global metadata is kept.
// By default global metadata is taken from the manifest.
func (b *Builder) SetKeepMetadata(keep bool) *Builder {
	b.keepMetadata = keep
	return b
}

// AddMetadata adds a global metadata tag to the output file.
func (b *Builder) AddMetadata(key, value string) *Builder {
	b.metadata[key] = value
	return b
}

// AddExtraArgs adds custom ffmpeg arguments before the output path.
func (b *Builder) AddExtraArgs(args ...string) *Builder {
	b.extraArgs = append(b.extraArgs, args...)
	return b
}

// SetProgressCallback sets a callback for progress updates.
// totalDuration is the video length in milliseconds, used for the
// percentage; 0 leaves it unset.
func (b *Builder) SetProgressCallback(totalDuration int64, callback models.ProgressCallback) *Builder {
	b.totalDuration = totalDuration
	b.progressCallback = callback
	return b
}

// Validate checks that the command can be built.
func (b *Builder) Validate() error {
	if b.videoInput == "" {
		return fmt.Errorf("video input cannot be empty")
	}
	if b.manifestPath == "" {
		return fmt.Errorf("manifest path cannot be empty")
	}
	if b.outputPath == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	if b.outputPath == b.videoInput {
		return fmt.Errorf("output path must differ from video input: %s", b.outputPath)
	}
	return nil
}

// BuildArgs constructs the ffmpeg command arguments.
func (b *Builder) BuildArgs() []string {
	args := []string{
		"-i", b.videoInput,
		"-i", b.manifestPath,
		"-map", "0",
	}

	if b.keepMetadata {
		args = append(args, "-map_metadata", "0")
	} else {
		args = append(args, "-map_metadata", "1")
	}
	args = append(args, "-map_chapters", "1")

	// Copy every stream as-is
	args = append(args, "-c", "copy")

	keys := make([]string, 0, len(b.metadata))
	for key := range b.metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		args = append(args, "-metadata", fmt.Sprintf("%s=%s", key, b.metadata[key]))
	}

	args = append(args, b.extraArgs...)

	if b.progressCallback != nil {
		args = append(args, ffmpeg.ProgressArgs...)
	}

	// Output file
	args = append(args, "-y", b.outputPath)

	return args
}

// Run executes the embed command.
func (b *Builder) Run(ctx context.Context) error {
	if err := b.Validate(); err != nil {
		return err
	}

	args := b.BuildArgs()
	slog.Debug("running ffmpeg", "cmd", command.Join(b.binary, args))

	cmd := exec.CommandContext(ctx, b.binary, args...)
	if b.progressCallback == nil {
		output, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("embed failed: %w, output: %s", err, string(output))
		}
	} else if err := b.runWithProgress(cmd); err != nil {
		return err
	}

	// Verify output file was created
	if _, err := os.Stat(b.outputPath); err != nil {
		return fmt.Errorf("output file not created: %w", err)
	}

	return nil
}

// runWithProgress streams ffmpeg's progress output to the callback while
// keeping stderr for error reporting.
func (b *Builder) runWithProgress(cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open ffmpeg output: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("embed failed: %w", err)
	}

	progress := models.NewProgress(b.totalDuration)
	streamErr := ffmpeg.NewProgressParser().StreamProgress(stdout, progress, b.progressCallback)
	// Wait must not run before the pipe is fully read
	io.Copy(io.Discard, stdout)

	if err := cmd.Wait(); err != nil {
		progress.State = models.ProgressStateFailed
		b.progressCallback(progress)
		return fmt.Errorf("embed failed: %w, output: %s", err, stderr.String())
	}
	if streamErr != nil {
		return streamErr
	}
	return nil
}

// DryRun returns the command that would be executed without running it.
func (b *Builder) DryRun() (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}
	return command.Join(b.binary, b.BuildArgs()), nil
}

// GetInputPath returns the primary input path (video).
func (b *Builder) GetInputPath() string {
	return b.videoInput
}

// GetOutputPath returns the output file path.
func (b *Builder) GetOutputPath() string {
	return b.outputPath
}
