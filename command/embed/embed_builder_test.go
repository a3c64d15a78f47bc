package embed

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"chapteredit/command"
	"chapteredit/ffmeta"
	"chapteredit/models"
)

func TestNewBuilder(t *testing.T) {
	builder := NewBuilder("/input/video.mp4", "/tmp/chapters.ffmeta", "/output/video.mp4")

	if builder.videoInput != "/input/video.mp4" {
		t.Error("Expected videoInput to be set")
	}
	if builder.manifestPath != "/tmp/chapters.ffmeta" {
		t.Error("Expected manifestPath to be set")
	}
	if builder.outputPath != "/output/video.mp4" {
		t.Error("Expected outputPath to be set")
	}
	if builder.binary != command.DefaultFFmpeg {
		t.Errorf("Expected default binary %s, got %s", command.DefaultFFmpeg, builder.binary)
	}
	if builder.keepMetadata {
		t.Error("Expected keepMetadata to be false by default")
	}
}

func TestBuilder_BuildArgs(t *testing.T) {
	args := NewBuilder("in.mp4", "ch.ffmeta", "out.mp4").BuildArgs()

	expected := []string{
		"-i", "in.mp4",
		"-i", "ch.ffmeta",
		"-map", "0",
		"-map_metadata", "1",
		"-map_chapters", "1",
		"-c", "copy",
		"-y", "out.mp4",
	}
	if !reflect.DeepEqual(args, expected) {
		t.Errorf("Expected %v, got %v", expected, args)
	}
}

func TestBuilder_KeepMetadata(t *testing.T) {
	args := NewBuilder("in.mp4", "ch.ffmeta", "out.mp4").SetKeepMetadata(true).BuildArgs()
	argsStr := strings.Join(args, " ")

	if !strings.Contains(argsStr, "-map_metadata 0") {
		t.Errorf("Expected metadata from the video, got %s", argsStr)
	}
	if !strings.Contains(argsStr, "-map_chapters 1") {
		t.Errorf("Expected chapters from the manifest, got %s", argsStr)
	}
}

func TestBuilder_MetadataAndExtraArgs(t *testing.T) {
	args := NewBuilder("in.mp4", "ch.ffmeta", "out.mp4").
		AddMetadata("title", "Talk").
		AddMetadata("artist", "Me").
		AddExtraArgs("-movflags", "+faststart").
		BuildArgs()
	argsStr := strings.Join(args, " ")

	if !strings.Contains(argsStr, "-metadata artist=Me -metadata title=Talk") {
		t.Errorf("Expected sorted metadata tags, got %s", argsStr)
	}
	if !strings.Contains(argsStr, "-movflags +faststart -y out.mp4") {
		t.Errorf("Expected extra args before output, got %s", argsStr)
	}
}

func TestBuilder_ProgressArgs(t *testing.T) {
	builder := NewBuilder("in.mp4", "ch.ffmeta", "out.mp4")
	if strings.Contains(strings.Join(builder.BuildArgs(), " "), "-progress") {
		t.Error("Expected no progress args without a callback")
	}

	builder.SetProgressCallback(60000, func(*models.Progress) {})
	argsStr := strings.Join(builder.BuildArgs(), " ")
	if !strings.Contains(argsStr, "-progress pipe:1 -nostats -y out.mp4") {
		t.Errorf("Expected progress args before output, got %s", argsStr)
	}
	if builder.totalDuration != 60000 {
		t.Errorf("Expected total duration 60000, got %d", builder.totalDuration)
	}
}

func TestBuilder_Validate(t *testing.T) {
	tests := []struct {
		name          string
		builder       *Builder
		errorContains string
	}{
		{"Valid", NewBuilder("in.mp4", "ch.ffmeta", "out.mp4"), ""},
		{"No video", NewBuilder("", "ch.ffmeta", "out.mp4"), "video input cannot be empty"},
		{"No manifest", NewBuilder("in.mp4", "", "out.mp4"), "manifest path cannot be empty"},
		{"No output", NewBuilder("in.mp4", "ch.ffmeta", ""), "output path cannot be empty"},
		{"Same file", NewBuilder("in.mp4", "ch.ffmeta", "in.mp4"), "must differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Validate()
			if tt.errorContains == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errorContains) {
				t.Errorf("Expected error containing '%s', got %v", tt.errorContains, err)
			}
		})
	}
}

func TestBuilder_DryRun(t *testing.T) {
	cmdStr, err := NewBuilder("my talk.mp4", "ch.ffmeta", "out.mp4").
		SetBinary("/usr/local/bin/ffmpeg").
		DryRun()
	if err != nil {
		t.Fatalf("DryRun failed: %v", err)
	}

	expected := "/usr/local/bin/ffmpeg -i 'my talk.mp4' -i ch.ffmeta -map 0 -map_metadata 1 -map_chapters 1 -c copy -y out.mp4"
	if cmdStr != expected {
		t.Errorf("Expected %s, got %s", expected, cmdStr)
	}

	if _, err := NewBuilder("", "ch.ffmeta", "out.mp4").DryRun(); err == nil {
		t.Error("Expected DryRun to fail validation")
	}
}

func TestBuilder_CommandInterface(t *testing.T) {
	var cmd command.Command = NewBuilder("in.mp4", "ch.ffmeta", "out.mp4")

	if cmd.GetInputPath() != "in.mp4" {
		t.Errorf("Expected input in.mp4, got %s", cmd.GetInputPath())
	}
	if cmd.GetOutputPath() != "out.mp4" {
		t.Errorf("Expected output out.mp4, got %s", cmd.GetOutputPath())
	}
}

func TestBuilder_Run_InvalidBinary(t *testing.T) {
	dir := t.TempDir()
	err := NewBuilder(filepath.Join(dir, "in.mp4"), filepath.Join(dir, "ch.ffmeta"), filepath.Join(dir, "out.mp4")).
		SetBinary(filepath.Join(dir, "no-such-ffmpeg")).
		Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "embed failed") {
		t.Errorf("Expected embed failure, got %v", err)
	}
}

// TestBuilder_Run_OversizedProgressLine runs a stand-in ffmpeg that writes
// one progress line longer than the scanner accepts, followed by more
// output than a pipe buffer holds.
func TestBuilder_Run_OversizedProgressLine(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}

	dir := t.TempDir()
	fake := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\nhead -c 300000 /dev/zero | tr '\\0' a\necho\necho progress=end\n"
	if err := os.WriteFile(fake, []byte(script), 0755); err != nil {
		t.Fatalf("Failed to write stand-in ffmpeg: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := NewBuilder(filepath.Join(dir, "in.mp4"), filepath.Join(dir, "ch.ffmeta"), filepath.Join(dir, "out.mp4")).
		SetBinary(fake).
		SetProgressCallback(1000, func(*models.Progress) {}).
		Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "error reading ffmpeg progress") {
		t.Errorf("Expected progress read error, got %v", err)
	}
	if ctx.Err() != nil {
		t.Error("Run did not return before the timeout")
	}
}

// TestBuilder_Run_Integration generates a short clip with ffmpeg's test
// source and embeds two chapters into it.
func TestBuilder_Run_Integration(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found on PATH, skipping integration test")
	}

	dir := t.TempDir()
	input := filepath.Join(dir, "in.mkv")
	output := filepath.Join(dir, "out.mkv")

	gen := exec.Command("ffmpeg", "-v", "quiet", "-f", "lavfi", "-i", "testsrc=duration=2:size=64x64:rate=10", "-y", input)
	if out, err := gen.CombinedOutput(); err != nil {
		t.Skipf("could not generate test clip: %v (%s)", err, out)
	}

	spans := []*models.Span{
		{Index: 1, Title: "Start", Start: 0, End: 1000},
		{Index: 2, Title: "End", Start: 1000, End: 2000},
	}
	manifest, err := ffmeta.WriteTemp(spans, nil)
	if err != nil {
		t.Fatalf("WriteTemp failed: %v", err)
	}
	defer os.Remove(manifest)

	var last *models.Progress
	err = NewBuilder(input, manifest, output).
		SetProgressCallback(2000, func(p *models.Progress) { last = p }).
		Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if last == nil || last.State != models.ProgressStateCompleted {
		t.Errorf("Expected a completed progress update, got %+v", last)
	}
}
