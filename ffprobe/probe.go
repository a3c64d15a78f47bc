// Package ffprobe reads chapter markers and duration from media files
// using the ffprobe command-line tool.
package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"chapteredit/internal/timeutil"
	"chapteredit/models"
)

// DefaultBinary is the ffprobe executable looked up on PATH.
const DefaultBinary = "ffprobe"

// Chapter represents a chapter marker as reported by ffprobe.
type Chapter struct {
	ID        int64             `json:"id"`
	TimeBase  string            `json:"time_base"`
	Start     int64             `json:"start"`
	StartTime string            `json:"start_time"`
	End       int64             `json:"end"`
	EndTime   string            `json:"end_time"`
	Tags      map[string]string `json:"tags,omitempty"`
}

// Title returns the chapter's title tag, if any.
func (c Chapter) Title() string {
	for key, value := range c.Tags {
		if strings.EqualFold(key, "title") {
			return value
		}
	}
	return ""
}

// StartMilliseconds returns the chapter start in milliseconds.
//
// start_time (seconds) is used when present, otherwise start is scaled by
// time_base.
func (c Chapter) StartMilliseconds() (int64, error) {
	if c.StartTime != "" {
		seconds, err := strconv.ParseFloat(c.StartTime, 64)
		if err == nil {
			return int64(math.Round(seconds * 1000)), nil
		}
	}

	num, den, err := parseTimeBase(c.TimeBase)
	if err != nil {
		return 0, fmt.Errorf("chapter %d: %w", c.ID, err)
	}
	return int64(math.Round(float64(c.Start) * float64(num) * 1000 / float64(den))), nil
}

// Format represents the container format information.
type Format struct {
	Filename       string            `json:"filename"`
	FormatName     string            `json:"format_name"`
	FormatLongName string            `json:"format_long_name"`
	Duration       string            `json:"duration"`
	Tags           map[string]string `json:"tags,omitempty"`
}

// ProbeResult holds the chapter markers and container format of a media file.
type ProbeResult struct {
	Chapters []Chapter `json:"chapters"`
	Format   Format    `json:"format"`
}

// GetDuration returns the duration of the media file in milliseconds.
//
// Returns an error if the duration cannot be parsed.
func (pr *ProbeResult) GetDuration() (int64, error) {
	if pr.Format.Duration == "" {
		return 0, fmt.Errorf("duration not available in format metadata")
	}

	seconds, err := strconv.ParseFloat(pr.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration '%s': %w", pr.Format.Duration, err)
	}

	return int64(math.Round(seconds * 1000)), nil
}

// HasChapters returns true if the media file contains chapter markers.
func (pr *ProbeResult) HasChapters() bool {
	return len(pr.Chapters) > 0
}

// ChapterList converts the probed markers into editor chapters.
//
// Times use the canonical H:MM:SS.mmm form. Chapters without a title tag
// are named "Chapter N" (1-based). A chapter starting after 99:59:59.999
// is an error, since two hour digits are the most a chapter file can
// hold.
func (pr *ProbeResult) ChapterList() (models.ChapterList, error) {
	chapters := make(models.ChapterList, 0, len(pr.Chapters))
	for i, ch := range pr.Chapters {
		ms, err := ch.StartMilliseconds()
		if err != nil {
			return nil, err
		}
		if ms > timeutil.MaxDisplayMilliseconds {
			return nil, fmt.Errorf("chapter %d starts at %s, past the 99:59:59.999 limit",
				i+1, timeutil.FromMilliseconds(ms).Format(true))
		}

		title := strings.TrimSpace(ch.Title())
		if title == "" {
			title = fmt.Sprintf("Chapter %d", i+1)
		}

		chapters = append(chapters, models.Chapter{
			Time:  timeutil.FromMilliseconds(ms).Format(true),
			Title: title,
		})
	}
	return chapters, nil
}

// Probe analyzes a media file and extracts its chapters and format.
//
// binary is the ffprobe executable (DefaultBinary when empty). The
// command is killed when ctx is cancelled.
//
// Example:
//
//	result, err := ffprobe.Probe(ctx, "", "/path/to/video.mp4")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	chapters, _ := result.ChapterList()
func Probe(ctx context.Context, binary, sourcePath string) (*ProbeResult, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("source path cannot be empty")
	}
	if binary == "" {
		binary = DefaultBinary
	}

	// -v quiet: suppress verbose output
	// -print_format json: output in JSON format
	// -show_chapters: include chapter information
	// -show_format: include format information (duration)
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_chapters",
		"-show_format",
		sourcePath,
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w (output: %s)", err, string(output))
	}

	return parseOutput(output)
}

// parseOutput decodes ffprobe's JSON output.
func parseOutput(output []byte) (*ProbeResult, error) {
	var result ProbeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe JSON output: %w", err)
	}
	return &result, nil
}

// parseTimeBase parses a "num/den" time base such as "1/1000".
func parseTimeBase(tb string) (num, den int64, err error) {
	n, d, ok := strings.Cut(tb, "/")
	if !ok {
		return 0, 0, fmt.Errorf("invalid time_base '%s'", tb)
	}
	num, err = strconv.ParseInt(n, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time_base '%s': %w", tb, err)
	}
	den, err = strconv.ParseInt(d, 10, 64)
	if err != nil || den == 0 {
		return 0, 0, fmt.Errorf("invalid time_base '%s'", tb)
	}
	return num, den, nil
}
