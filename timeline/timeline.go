// Package timeline resolves a chapter list into spans with start and end
// times, ready to be written as container chapter metadata.
package timeline

import (
	"fmt"

	"chapteredit/models"
)

// Builder turns chapters into spans.
type Builder struct {
	chapters models.ChapterList
	sort     bool
}

// NewBuilder creates a Builder for the given chapters.
func NewBuilder(chapters models.ChapterList) *Builder {
	return &Builder{chapters: chapters}
}

// SetSortByTime sets whether chapters are ordered by time before building.
// Without it, out-of-order chapters are an error.
func (b *Builder) SetSortByTime(sort bool) *Builder {
	b.sort = sort
	return b
}

// Build creates one span per chapter.
//
// Each span ends where the next one starts; the last one ends at the
// media duration. Every chapter time must be a recognized H:MM:SS[.mmm]
// string and every title non-empty.
//
// Example:
//
//	probeResult, _ := ffprobe.Probe(ctx, "", "/path/to/video.mp4")
//	spans, err := timeline.NewBuilder(chapters).Build(probeResult)
func (b *Builder) Build(media MediaInfo) ([]*models.Span, error) {
	if len(b.chapters) == 0 {
		return nil, fmt.Errorf("chapter list is empty")
	}

	if media == nil {
		return nil, fmt.Errorf("media info cannot be nil")
	}

	duration, err := media.GetDuration()
	if err != nil {
		return nil, fmt.Errorf("failed to get duration: %w", err)
	}

	if duration <= 0 {
		return nil, fmt.Errorf("invalid duration: %d ms", duration)
	}

	chapters := b.chapters
	if b.sort {
		chapters = chapters.SortByTime()
	}

	starts := make([]int64, len(chapters))
	for i, ch := range chapters {
		ms, ok := ch.Milliseconds()
		if !ok {
			return nil, fmt.Errorf("chapter %d has invalid time '%s'", i+1, ch.Time)
		}
		starts[i] = ms
	}

	spans := make([]*models.Span, 0, len(chapters))
	for i, ch := range chapters {
		end := duration
		if i+1 < len(starts) {
			end = starts[i+1]
		}

		span, err := models.NewSpan(i+1, ch.Title, starts[i], end)
		if err != nil {
			return nil, fmt.Errorf("chapter %d (%s): %w", i+1, ch.Time, err)
		}
		spans = append(spans, span)
	}

	if err := ValidateSpans(spans); err != nil {
		return nil, err
	}
	return spans, nil
}

// ValidateSpans validates a sequence of spans for completeness and correctness
func ValidateSpans(spans []*models.Span) error {
	if len(spans) == 0 {
		return fmt.Errorf("span list is empty")
	}

	for i, span := range spans {
		if err := span.Validate(); err != nil {
			return fmt.Errorf("span %d is invalid: %w", i+1, err)
		}
	}

	// Check for sequential indexes
	for i, span := range spans {
		expected := i + 1
		if span.Index != expected {
			return fmt.Errorf("span %d has incorrect index: expected %d, got %d", i+1, expected, span.Index)
		}
	}

	// Spans must tile the timeline: no overlaps, no gaps
	for i := 0; i < len(spans)-1; i++ {
		currentEnd := spans[i].End
		nextStart := spans[i+1].Start

		if currentEnd > nextStart {
			return fmt.Errorf("spans %d and %d overlap: span %d ends at %d, span %d starts at %d",
				i+1, i+2, i+1, currentEnd, i+2, nextStart)
		}
		if currentEnd < nextStart {
			return fmt.Errorf("gap between spans %d and %d: span %d ends at %d, span %d starts at %d",
				i+1, i+2, i+1, currentEnd, i+2, nextStart)
		}
	}

	return nil
}
