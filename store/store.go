// Package store reads and writes chapter files on disk.
//
// It is the file-access side of the editor: the chapterlist package turns
// text into chapters, store moves that text to and from files.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"chapteredit/chapterlist"
	"chapteredit/models"
)

// DefaultExt is the extension of a chapter file saved next to its video.
const DefaultExt = ".txt"

// IOError is returned when a chapter file cannot be read or written.
type IOError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s file: %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Load reads a saved chapter file.
//
// Example:
//
//	chapters, err := store.Load("movie.txt")
//	if err != nil {
//	    return err
//	}
func Load(path string) (models.ChapterList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "load", Path: path, Err: err}
	}

	chapters := chapterlist.Deserialize(string(data))
	slog.Debug("loaded chapters", "path", path, "count", len(chapters))
	return chapters, nil
}

// Save writes chapters to path, replacing any existing file.
func Save(path string, chapters models.ChapterList) error {
	content := chapterlist.Serialize(chapters)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return &IOError{Op: "save", Path: path, Err: err}
	}

	slog.Debug("saved chapters", "path", path, "count", len(chapters))
	return nil
}

// SidecarPath returns the chapter file path for a video: the video path
// with its extension replaced by ext (DefaultExt when ext is empty).
//
// Example:
//
//	SidecarPath("/videos/talk.mp4", "") // "/videos/talk.txt"
func SidecarPath(videoPath, ext string) string {
	if ext == "" {
		ext = DefaultExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ext
}

// LoadMany loads several chapter files concurrently.
//
// At most workers files are read at once (runtime.NumCPU() when workers
// is 0 or less). Results are returned in the same order as paths. The
// first failure cancels the remaining loads and is returned.
func LoadMany(ctx context.Context, workers int, paths ...string) ([]models.ChapterList, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make([]models.ChapterList, len(paths))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			chapters, err := Load(path)
			if err != nil {
				return err
			}
			results[i] = chapters
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
