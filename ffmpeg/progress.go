// Package ffmpeg reads the machine-readable progress that ffmpeg writes
// with "-progress pipe:1".
package ffmpeg

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chapteredit/models"
)

// ProgressArgs makes ffmpeg write key=value progress blocks to stdout
// instead of the interactive stats line.
var ProgressArgs = []string{"-progress", "pipe:1", "-nostats"}

// ProgressParser parses ffmpeg -progress output.
//
// Each block is a run of key=value lines ending with
// "progress=continue" or "progress=end":
//
//	total_size=1048576
//	out_time_us=1500000
//	speed=42.1x
//	progress=continue
type ProgressParser struct{}

// NewProgressParser creates a new parser for ffmpeg progress output
func NewProgressParser() *ProgressParser {
	return &ProgressParser{}
}

// ParseLine applies one key=value line to progress.
//
// It returns true when the line closes a block, which is when a callback
// should fire.
func (pp *ProgressParser) ParseLine(line string, progress *models.Progress) bool {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return false
	}
	value = strings.TrimSpace(value)

	switch key {
	case "out_time_us", "out_time_ms":
		// Both keys carry microseconds
		if us, err := strconv.ParseInt(value, 10, 64); err == nil {
			progress.SetOutTime(us / 1000)
		}
	case "total_size":
		if size, err := strconv.ParseInt(value, 10, 64); err == nil {
			progress.Size = size
		}
	case "speed":
		if speed, err := strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64); err == nil {
			progress.Speed = speed
		}
	case "progress":
		if value == "end" {
			progress.State = models.ProgressStateCompleted
			if progress.TotalDuration > 0 {
				progress.SetOutTime(progress.TotalDuration)
			}
		} else {
			progress.State = models.ProgressStateRunning
		}
		return true
	}

	return false
}

// StreamProgress reads ffmpeg progress output and calls callback after
// every block. It returns when reader is exhausted.
func (pp *ProgressParser) StreamProgress(reader io.Reader, progress *models.Progress, callback models.ProgressCallback) error {
	scanner := bufio.NewScanner(reader)

	for scanner.Scan() {
		if pp.ParseLine(scanner.Text(), progress) && callback != nil {
			callback(progress)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading ffmpeg progress: %w", err)
	}
	return nil
}
