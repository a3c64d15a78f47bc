// Package models provides core data structures for the chapter editor.
package models

import (
	"fmt"
	"slices"
	"sort"

	"chapteredit/internal/timeutil"
)

// Chapter is a named point on a media timeline.
//
// Time is the canonical H:MM:SS or H:MM:SS.mmm string when the chapter
// comes from free-text parsing. Chapters loaded from a saved file keep
// whatever text was stored, so Time is not validated here.
type Chapter struct {
	Time  string `json:"time"`
	Title string `json:"title"`
}

// String returns the chapter in its saved-file form: "{time} {title}".
func (c Chapter) String() string {
	return c.Time + " " + c.Title
}

// Milliseconds returns the chapter start in milliseconds.
//
// The second return value is false when Time is not a recognized
// H:MM:SS[.mmm] string.
func (c Chapter) Milliseconds() (int64, bool) {
	tp, ok := timeutil.ParseDisplayString(c.Time)
	if !ok {
		return 0, false
	}
	return tp.ToMilliseconds(), true
}

// Field names accepted by ChapterList.Update.
const (
	FieldTime  = "time"
	FieldTitle = "title"
)

// ChapterList is an ordered list of chapters in playback order.
//
// Duplicated times are allowed. The editing methods never modify the
// receiver; they return a new list.
type ChapterList []Chapter

// Append returns the list with chapters added at the end.
//
// This is what pasting parsed chapters into an open list does.
func (l ChapterList) Append(chapters ...Chapter) ChapterList {
	out := make(ChapterList, 0, len(l)+len(chapters))
	out = append(out, l...)
	return append(out, chapters...)
}

// Insert returns the list with c placed right after index after.
// An index outside the list appends c at the end.
func (l ChapterList) Insert(after int, c Chapter) ChapterList {
	if after < 0 || after >= len(l) {
		return l.Append(c)
	}
	out := slices.Clone(l)
	return slices.Insert(out, after+1, c)
}

// Delete returns the list without the chapter at index i.
// An out-of-range index leaves the list unchanged.
func (l ChapterList) Delete(i int) ChapterList {
	return l.DeleteMany(i)
}

// DeleteMany returns the list without the chapters at the given indexes.
// Out-of-range and repeated indexes are ignored.
func (l ChapterList) DeleteMany(indexes ...int) ChapterList {
	drop := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		drop[i] = true
	}

	out := make(ChapterList, 0, len(l))
	for i, c := range l {
		if !drop[i] {
			out = append(out, c)
		}
	}
	return out
}

// Update returns the list with one field of chapter i replaced.
//
// field must be FieldTime or FieldTitle.
func (l ChapterList) Update(i int, field, value string) (ChapterList, error) {
	if i < 0 || i >= len(l) {
		return nil, fmt.Errorf("chapter index %d out of range (0-%d)", i, len(l)-1)
	}

	out := slices.Clone(l)
	switch field {
	case FieldTime:
		out[i].Time = value
	case FieldTitle:
		out[i].Title = value
	default:
		return nil, fmt.Errorf("unknown chapter field '%s', must be one of: %s, %s", field, FieldTime, FieldTitle)
	}
	return out, nil
}

// SortByTime returns the list ordered by start time.
//
// The sort is stable. Times that are not recognized sort as zero, so
// they move to the front while keeping their relative order.
func (l ChapterList) SortByTime() ChapterList {
	type keyed struct {
		ms      int64
		chapter Chapter
	}

	items := make([]keyed, len(l))
	for i, c := range l {
		ms, _ := c.Milliseconds() // unrecognized -> 0
		items[i] = keyed{ms: ms, chapter: c}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ms < items[j].ms
	})

	out := make(ChapterList, len(items))
	for i, item := range items {
		out[i] = item.chapter
	}
	return out
}
