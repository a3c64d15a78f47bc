package models

import (
	"fmt"
	"strings"
)

// Span is a chapter with its resolved start and end on the media timeline.
//
// Spans are built from a ChapterList and the media duration: each chapter
// ends where the next one starts and the last one ends with the media.
// Start and End are in milliseconds.
//
// Use NewSpan to create a validated Span instance.
type Span struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Start int64  `json:"start_ms"`
	End   int64  `json:"end_ms"`
}

// NewSpan creates a new Span with validation.
//
// Returns an error if the span parameters are invalid:
//   - Title cannot be empty or whitespace-only
//   - Start cannot be negative
//   - Start must be less than End
//
// Example:
//
//	span, err := models.NewSpan(1, "Intro", 0, 90000)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewSpan(index int, title string, start, end int64) (*Span, error) {
	s := &Span{
		Index: index,
		Title: title,
		Start: start,
		End:   end,
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid span: %w", err)
	}
	return s, nil
}

// Validate checks if the Span has valid data.
func (s *Span) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("title cannot be empty")
	}

	if s.Start < 0 {
		return fmt.Errorf("start cannot be negative")
	}

	if s.Start >= s.End {
		return fmt.Errorf("start must be less than end")
	}

	return nil
}

// Duration returns the span length in milliseconds.
func (s *Span) Duration() int64 {
	return s.End - s.Start
}
