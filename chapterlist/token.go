package chapterlist

import "unicode"

// timeTokenShapes lists the recognized timestamp shapes in priority order.
//
// 'H' is a run of one or two digits (two are tried first), 'D' is exactly
// one digit and any other character must match literally. At a given
// position the first shape that matches wins, even if a later shape would
// produce a longer match.
var timeTokenShapes = []string{
	"H:DD:DD.DDD",
	"H:DD.DDD",
	"H:DD:DD",
	"H:DD",
}

// token is a timestamp found in a line, as rune offsets [start, end).
type token struct {
	start, end int
}

// findTokens returns every non-overlapping timestamp in line, leftmost
// first. Scanning resumes at the end of each match.
func findTokens(line []rune) []token {
	var tokens []token
	for p := 0; p < len(line); {
		end := matchAt(line, p)
		if end < 0 {
			p++
			continue
		}
		tokens = append(tokens, token{start: p, end: end})
		p = end
	}
	return tokens
}

// findFirstToken returns the leftmost timestamp in line.
func findFirstToken(line []rune) (token, bool) {
	for p := range line {
		if end := matchAt(line, p); end >= 0 {
			return token{start: p, end: end}, true
		}
	}
	return token{}, false
}

// matchAt returns the end offset of the first shape matching at p, or -1.
func matchAt(line []rune, p int) int {
	if p >= len(line) || !unicode.IsDigit(line[p]) {
		return -1
	}
	for _, shape := range timeTokenShapes {
		for _, leading := range []int{2, 1} {
			if end := matchShape(line, p, shape, leading); end >= 0 {
				return end
			}
		}
	}
	return -1
}

// matchShape matches one shape at p with exactly leading digits for 'H'.
func matchShape(line []rune, p int, shape string, leading int) int {
	i := p
	for _, want := range shape {
		switch want {
		case 'H':
			for n := 0; n < leading; n++ {
				if i >= len(line) || !unicode.IsDigit(line[i]) {
					return -1
				}
				i++
			}
		case 'D':
			if i >= len(line) || !unicode.IsDigit(line[i]) {
				return -1
			}
			i++
		default:
			if i >= len(line) || line[i] != want {
				return -1
			}
			i++
		}
	}
	return i
}
