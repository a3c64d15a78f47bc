// Package ffmeta writes chapter spans as an ffmpeg FFMETADATA1 file.
//
// The file is passed to ffmpeg as a second input and mapped onto the
// output with -map_chapters, which is how chapters are embedded into a
// container without re-encoding.
package ffmeta

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"chapteredit/models"
)

// Header is the first line of every FFMETADATA1 file.
const Header = ";FFMETADATA1"

// TimeBase is the time base written for every chapter. Span times are in
// milliseconds.
const TimeBase = "1/1000"

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`=`, `\=`,
	`;`, `\;`,
	`#`, `\#`,
	"\n", "\\\n",
)

// Escape backslash-escapes the characters FFMETADATA1 treats as syntax.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Write writes spans and global metadata in FFMETADATA1 format.
//
// Global keys are written in sorted order so the output is stable.
//
// Format:
//
//	;FFMETADATA1
//	title=My video
//
//	[CHAPTER]
//	TIMEBASE=1/1000
//	START=0
//	END=90000
//	title=Intro
func Write(w io.Writer, spans []*models.Span, metadata map[string]string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, Header)

	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(bw, "%s=%s\n", Escape(key), Escape(metadata[key]))
	}

	for _, span := range spans {
		if span == nil {
			return fmt.Errorf("span list contains nil entry")
		}
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "[CHAPTER]")
		fmt.Fprintf(bw, "TIMEBASE=%s\n", TimeBase)
		fmt.Fprintf(bw, "START=%d\n", span.Start)
		fmt.Fprintf(bw, "END=%d\n", span.End)
		fmt.Fprintf(bw, "title=%s\n", Escape(span.Title))
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// WriteTemp writes the metadata file into the temp directory and returns
// its path. The caller removes it when done.
func WriteTemp(spans []*models.Span, metadata map[string]string) (string, error) {
	tmpFile, err := os.CreateTemp("", "chapters-*.ffmeta")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmpFile.Close()

	if err := Write(tmpFile, spans, metadata); err != nil {
		os.Remove(tmpFile.Name())
		return "", err
	}

	return tmpFile.Name(), nil
}
