// Package chapterlist converts chapter lists to and from text.
//
// Two text forms are handled. The saved form has one "{time} {title}"
// line per chapter and round-trips through Deserialize and Serialize.
// Free text is whatever a user pastes, typically a video description,
// where timestamps and titles are mixed in one of two layouts:
//
//	0:00 Intro - 1:30 Verse - 3:00 Chorus
//
// or one chapter per line, possibly among unrelated lines:
//
//	Tracklist
//	0:00 Intro
//	1:30 - Verse
//
// ParseFreeText recognizes both and normalizes every timestamp to
// H:MM:SS.mmm with NormalizeTime.
package chapterlist

import (
	"strings"

	"chapteredit/models"
)

// ParseFreeText extracts chapters from pasted text.
//
// When exactly one line is non-blank, every timestamp on it starts a
// chapter whose title runs to the next timestamp, minus the '-' separator
// in between. The last title runs to the end of the line and keeps any
// trailing dash. A single timestamp on that line is not enough and yields
// no chapters. Otherwise each line
// contributes at most one chapter: its first timestamp and the text after
// it. Chapters with an empty title are dropped.
//
// ParseFreeText never fails; it returns an empty list when nothing matches.
func ParseFreeText(text string) models.ChapterList {
	lines := strings.Split(text, "\n")

	var nonBlank []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			nonBlank = append(nonBlank, line)
		}
	}

	if len(nonBlank) == 1 {
		return parseSingleLine(nonBlank[0])
	}
	return parseLines(lines)
}

func parseSingleLine(line string) models.ChapterList {
	chapters := make(models.ChapterList, 0)

	runes := []rune(line)
	tokens := findTokens(runes)
	if len(tokens) < 2 {
		return chapters
	}

	for i, tok := range tokens {
		end := len(runes)
		if i+1 < len(tokens) {
			end = tokens[i+1].start
		}

		title := cleanTitle(string(runes[tok.end:end]))
		if i+1 < len(tokens) {
			// the separator before the next timestamp belongs to neither title
			title = strings.TrimRight(title, "- ")
		}
		if title == "" {
			continue
		}
		chapters = append(chapters, models.Chapter{
			Time:  NormalizeTime(string(runes[tok.start:tok.end])),
			Title: title,
		})
	}
	return chapters
}

func parseLines(lines []string) models.ChapterList {
	chapters := make(models.ChapterList, 0)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		runes := []rune(line)
		tok, ok := findFirstToken(runes)
		if !ok {
			continue
		}

		title := cleanTitle(string(runes[tok.end:]))
		if title == "" {
			continue
		}
		chapters = append(chapters, models.Chapter{
			Time:  NormalizeTime(string(runes[tok.start:tok.end])),
			Title: title,
		})
	}
	return chapters
}

// cleanTitle trims whitespace, then any leading run of '-' and spaces.
func cleanTitle(s string) string {
	return strings.TrimLeft(strings.TrimSpace(s), "- ")
}
