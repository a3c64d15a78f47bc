package models

import (
	"fmt"
	"time"
)

// Progress represents the progress of an ffmpeg run, in media time.
type Progress struct {
	// Current position in the output
	OutTime int64   // Milliseconds written so far
	Speed   float64 // Speed multiplier (e.g., 40.5 means 40.5x realtime)
	Size    int64   // Bytes written so far

	// Progress calculation
	TotalDuration int64   // Total duration in milliseconds (for percentage calculation)
	Percent       float64 // Percentage complete (0-100)

	State     ProgressState
	StartTime time.Time
	UpdatedAt time.Time
}

// ProgressState represents the current state of an ffmpeg run
type ProgressState string

const (
	ProgressStateStarting  ProgressState = "starting"
	ProgressStateRunning   ProgressState = "running"
	ProgressStateCompleted ProgressState = "completed"
	ProgressStateFailed    ProgressState = "failed"
)

// ProgressCallback receives progress updates while ffmpeg runs
type ProgressCallback func(progress *Progress)

// NewProgress creates a new progress tracker for media of the given
// duration in milliseconds. A zero duration disables the percentage.
func NewProgress(totalDuration int64) *Progress {
	now := time.Now()
	return &Progress{
		TotalDuration: totalDuration,
		State:         ProgressStateStarting,
		StartTime:     now,
		UpdatedAt:     now,
	}
}

// SetOutTime records the current position and updates the percentage.
func (p *Progress) SetOutTime(ms int64) {
	if ms < 0 {
		ms = 0
	}
	p.OutTime = ms
	if p.TotalDuration > 0 {
		p.Percent = float64(ms) / float64(p.TotalDuration) * 100
		if p.Percent > 100 {
			p.Percent = 100
		}
	}
	p.UpdatedAt = time.Now()
}

// EstimatedTimeRemaining calculates ETA from the elapsed time and percentage
func (p *Progress) EstimatedTimeRemaining() time.Duration {
	if p.Percent <= 0 {
		return 0
	}

	elapsed := p.UpdatedAt.Sub(p.StartTime)
	totalEstimated := time.Duration(float64(elapsed) / (p.Percent / 100))
	remaining := totalEstimated - elapsed

	if remaining < 0 {
		return 0
	}
	return remaining
}

// FormatSummary returns a human-readable summary of the progress
func (p *Progress) FormatSummary() string {
	return fmt.Sprintf(
		"Progress: %.1f%% | Speed: %.2fx | Size: %dkB | ETA: %s",
		p.Percent,
		p.Speed,
		p.Size/1024,
		formatDuration(p.EstimatedTimeRemaining()),
	)
}

// formatDuration converts a duration to a human-readable string
func formatDuration(d time.Duration) string {
	if d == 0 {
		return "calculating..."
	}

	seconds := int(d.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	seconds = seconds % 60

	if minutes < 60 {
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}
