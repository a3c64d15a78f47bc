package chapterlist

import (
	"strings"

	"chapteredit/models"
)

// Deserialize reads a saved chapter file: one "{time} {title}" per line.
//
// Blank lines are skipped and a trailing '\r' is dropped. Each line is
// split at its first space; the time is kept as written and the title is
// empty when the line has no space. Deserialize never fails.
func Deserialize(text string) models.ChapterList {
	chapters := make(models.ChapterList, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		time, title, _ := strings.Cut(line, " ")
		chapters = append(chapters, models.Chapter{Time: time, Title: title})
	}
	return chapters
}

// Serialize writes chapters as "{time} {title}" lines joined by '\n',
// without a trailing newline.
//
// Deserialize(Serialize(list)) returns list as long as no time contains a
// space or newline, no title contains a newline, and no chapter has both
// fields empty.
func Serialize(list models.ChapterList) string {
	var b strings.Builder
	for i, c := range list {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(c.Time)
		b.WriteByte(' ')
		b.WriteString(c.Title)
	}
	return b.String()
}
