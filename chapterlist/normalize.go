package chapterlist

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeTime rewrites a matched timestamp as H:MM:SS.mmm.
//
// M:SS forms get zero hours. The fraction after the first '.' is cut to
// three characters and right-padded with zeros, so "1:02:03.5" becomes
// "1:02:03.500". Components that are not plain integers count as zero.
// Input that has neither two nor three ':'-separated parts is returned
// unchanged.
//
// Example:
//
//	NormalizeTime("1:30")      // "0:01:30.000"
//	NormalizeTime("1:02:03.5") // "1:02:03.500"
func NormalizeTime(raw string) string {
	clock, fraction, found := strings.Cut(raw, ".")
	if !found {
		fraction = "000"
	}

	var hours, minutes, seconds int
	parts := strings.Split(clock, ":")
	switch len(parts) {
	case 2:
		// M:SS; a component that does not parse is read as 0
		minutes = parseIntOr(parts[0], 0)
		seconds = parseIntOr(parts[1], 0)
	case 3:
		// H:MM:SS; same zero default per component
		hours = parseIntOr(parts[0], 0)
		minutes = parseIntOr(parts[1], 0)
		seconds = parseIntOr(parts[2], 0)
	default:
		return raw
	}

	return fmt.Sprintf("%d:%02d:%02d.%s", hours, minutes, seconds, padMillis(fraction))
}

// padMillis keeps the first three characters of a fraction and pads it
// with trailing zeros to exactly three.
func padMillis(fraction string) string {
	runes := []rune(fraction)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes) + strings.Repeat("0", 3-len(runes))
}

// parseIntOr parses s as a base-10 integer, returning def when it does not
// parse (non-ASCII digits, empty string, overflow).
func parseIntOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
