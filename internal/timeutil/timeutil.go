// Package timeutil converts between millisecond counts, hour/minute/second
// positions and the H:MM:SS.mmm display format used by chapter lists.
package timeutil

import (
	"fmt"
	"math"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute

	// largest millisecond count a float64 holds exactly
	maxExactMillis = 1 << 53
)

// MaxDisplayMilliseconds is the last millisecond ParseDisplayString can
// read back after Format: 99:59:59.999. Hours take at most two digits.
const MaxDisplayMilliseconds = 100*msPerHour - 1

// TimePosition is a duration split into hours, minutes and seconds.
//
// Seconds keeps the fractional part (milliseconds). A TimePosition has no
// identity of its own: it can always be rebuilt from its millisecond count
// or from its display string.
type TimePosition struct {
	Hours   int     `json:"hours"`
	Minutes int     `json:"minutes"`
	Seconds float64 `json:"seconds"`
}

// FromMilliseconds splits a millisecond count into hours, minutes and seconds.
//
// Negative input is clamped to zero.
//
// Example:
//
//	FromMilliseconds(3723500) // {Hours: 1, Minutes: 2, Seconds: 3.5}
func FromMilliseconds(ms int64) TimePosition {
	if ms < 0 {
		ms = 0
	}
	return TimePosition{
		Hours:   int(ms / msPerHour),
		Minutes: int(ms % msPerHour / msPerMinute),
		Seconds: float64(ms%msPerMinute) / msPerSecond,
	}
}

// ToMilliseconds converts the position back into milliseconds.
//
// The result is rounded to the nearest millisecond so that
// FromMilliseconds(ms).ToMilliseconds() == ms for every ms >= 0.
func (tp TimePosition) ToMilliseconds() int64 {
	total := (float64(tp.Hours)*3600 + float64(tp.Minutes)*60 + tp.Seconds) * msPerSecond
	return int64(math.Round(total))
}

// Format renders the position as H:MM:SS, or H:MM:SS.mmm when
// includeMilliseconds is set. Hours are never padded.
//
// Example:
//
//	tp := TimePosition{Hours: 1, Minutes: 2, Seconds: 3.5}
//	tp.Format(false) // "1:02:03"
//	tp.Format(true)  // "1:02:03.500"
func (tp TimePosition) Format(includeMilliseconds bool) string {
	if !includeMilliseconds {
		return fmt.Sprintf("%d:%02d:%02d", tp.Hours, tp.Minutes, int(tp.Seconds))
	}

	// Render from the rounded total so 59.9996s carries into the next minute
	// instead of printing "60.000".
	ms := tp.ToMilliseconds()
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%d:%02d:%02d.%03d",
		ms/msPerHour,
		ms%msPerHour/msPerMinute,
		ms%msPerMinute/msPerSecond,
		ms%msPerSecond)
}

// String returns the H:MM:SS.mmm form.
func (tp TimePosition) String() string {
	return tp.Format(true)
}

// ParseDisplayString parses H:MM:SS or H:MM:SS.f, H:MM:SS.ff, H:MM:SS.fff.
//
// Hours take one or two digits, minutes and seconds exactly two. The
// fraction is right-padded to three digits, so ".5" means 500ms. Minutes
// and seconds are not range-checked: "0:75:30" is 75 minutes 30 seconds,
// which is what NormalizeTime produces for a "75:30" timestamp.
//
// The second return value is false when s does not have this shape.
func ParseDisplayString(s string) (TimePosition, bool) {
	i := 0
	hours, n := readDigits(s, i, 2)
	if n == 0 {
		return TimePosition{}, false
	}
	i += n

	if i >= len(s) || s[i] != ':' {
		return TimePosition{}, false
	}
	i++
	minutes, n := readDigits(s, i, 2)
	if n != 2 {
		return TimePosition{}, false
	}
	i += n

	if i >= len(s) || s[i] != ':' {
		return TimePosition{}, false
	}
	i++
	seconds, n := readDigits(s, i, 2)
	if n != 2 {
		return TimePosition{}, false
	}
	i += n

	millis := 0
	if i < len(s) {
		if s[i] != '.' {
			return TimePosition{}, false
		}
		i++
		frac, n := readDigits(s, i, 3)
		if n == 0 {
			return TimePosition{}, false
		}
		i += n
		for ; n < 3; n++ {
			frac *= 10
		}
		millis = frac
	}

	if i != len(s) {
		return TimePosition{}, false
	}

	return TimePosition{
		Hours:   hours,
		Minutes: minutes,
		Seconds: float64(seconds) + float64(millis)/msPerSecond,
	}, true
}

// FormatMilliseconds renders a millisecond value as H:MM:SS.mmm.
//
// The value is truncated toward zero. NaN and negative values format as
// "0:00:00.000".
func FormatMilliseconds(ms float64) string {
	if math.IsNaN(ms) || ms < 0 {
		ms = 0
	}
	if ms > maxExactMillis {
		ms = maxExactMillis
	}
	return FromMilliseconds(int64(ms)).Format(true)
}

// ParseMilliseconds parses a display string into milliseconds.
//
// The second return value is false when the string is not recognized.
func ParseMilliseconds(s string) (float64, bool) {
	tp, ok := ParseDisplayString(s)
	if !ok {
		return 0, false
	}
	return float64(tp.ToMilliseconds()), true
}

// readDigits reads up to limit ASCII digits starting at s[i] and returns
// their value and how many were consumed.
func readDigits(s string, i, limit int) (value, n int) {
	for n < limit && i+n < len(s) {
		c := s[i+n]
		if c < '0' || c > '9' {
			break
		}
		value = value*10 + int(c-'0')
		n++
	}
	return value, n
}
