package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"chapteredit/bridge"
	"chapteredit/chapterlist"
	"chapteredit/command/embed"
	"chapteredit/config"
	"chapteredit/ffmeta"
	"chapteredit/ffprobe"
	"chapteredit/internal/timeutil"
	"chapteredit/models"
	"chapteredit/platform"
	"chapteredit/store"
	"chapteredit/timeline"
)

func runLoad(ctx context.Context, e *env) error {
	if len(e.args) == 0 {
		return usageError("at least one file is required")
	}

	lists, err := store.LoadMany(ctx, e.cfg.Workers, e.args...)
	if err != nil {
		return err
	}

	for i, list := range lists {
		if len(lists) > 1 {
			if i > 0 {
				fmt.Fprintln(e.stdout)
			}
			fmt.Fprintf(e.stdout, "# %s\n", e.args[i])
		}
		writeList(e.stdout, list)
	}
	return nil
}

func runSave(_ context.Context, e *env) error {
	if len(e.args) != 1 {
		return usageError("exactly one file is required")
	}

	text, err := io.ReadAll(e.stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	list := chapterlist.ParseFreeText(string(text))
	if len(list) == 0 {
		return fmt.Errorf("no chapters found in input")
	}
	list = withMilliseconds(list, e.cfg.IncludeMilliseconds)

	if e.cfg.DryRun {
		writeList(e.stdout, list)
		return nil
	}
	if err := store.Save(e.args[0], list); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "✓ Saved %d chapters to %s\n", len(list), e.args[0])
	return nil
}

func runParse(_ context.Context, e *env) error {
	if len(e.args) > 1 {
		return usageError("at most one file is allowed")
	}

	var (
		text []byte
		err  error
	)
	if len(e.args) == 0 || e.args[0] == "-" {
		text, err = io.ReadAll(e.stdin)
	} else {
		text, err = os.ReadFile(e.args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	list := chapterlist.ParseFreeText(string(text))
	slog.Debug("parsed chapters", "count", len(list))
	writeList(e.stdout, withMilliseconds(list, e.cfg.IncludeMilliseconds))
	return nil
}

func runFormatTime(_ context.Context, e *env) error {
	if len(e.args) != 1 {
		return usageError("exactly one value is required")
	}

	ms, err := strconv.ParseFloat(e.args[0], 64)
	if err != nil {
		return usageError("invalid milliseconds '%s'", e.args[0])
	}

	formatted := timeutil.FormatMilliseconds(ms)
	if !e.cfg.IncludeMilliseconds {
		// H:MM:SS truncates the fraction
		formatted, _, _ = strings.Cut(formatted, ".")
	}
	fmt.Fprintln(e.stdout, formatted)
	return nil
}

func runParseTime(_ context.Context, e *env) error {
	if len(e.args) != 1 {
		return usageError("exactly one value is required")
	}

	ms, ok := timeutil.ParseMilliseconds(e.args[0])
	if !ok {
		return fmt.Errorf("time '%s' is not recognized, expected H:MM:SS or H:MM:SS.mmm", e.args[0])
	}
	fmt.Fprintln(e.stdout, strconv.FormatFloat(ms, 'f', -1, 64))
	return nil
}

func runSort(_ context.Context, e *env) error {
	if len(e.args) != 1 {
		return usageError("exactly one file is required")
	}

	list, err := store.Load(e.args[0])
	if err != nil {
		return err
	}

	sorted := list.SortByTime()
	if e.cfg.DryRun {
		writeList(e.stdout, sorted)
		return nil
	}
	return store.Save(e.args[0], sorted)
}

func runPlatform(_ context.Context, e *env) error {
	fmt.Fprintln(e.stdout, platform.Detect())
	return nil
}

func runProbe(ctx context.Context, e *env) error {
	video, err := oneVideo(e)
	if err != nil {
		return err
	}

	result, err := ffprobe.Probe(ctx, e.cfg.FFprobePath, video)
	if err != nil {
		return fmt.Errorf("media analysis failed: %w", err)
	}

	list, err := result.ChapterList()
	if err != nil {
		return fmt.Errorf("failed to read chapters: %w", err)
	}
	list = withMilliseconds(list, e.cfg.IncludeMilliseconds)

	if e.cfg.Output == "" {
		writeList(e.stdout, list)
		return nil
	}
	if !result.HasChapters() {
		return fmt.Errorf("%s has no chapters", video)
	}
	if err := store.Save(e.cfg.Output, list); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "✓ Saved %d chapters to %s\n", len(list), e.cfg.Output)
	return nil
}

func runExport(ctx context.Context, e *env) error {
	video, err := oneVideo(e)
	if err != nil {
		return err
	}

	spans, err := buildSpans(ctx, e.cfg, video)
	if err != nil {
		return err
	}

	if e.cfg.Output == "" {
		return ffmeta.Write(e.stdout, spans, nil)
	}

	f, err := os.Create(e.cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", e.cfg.Output, err)
	}
	if err := ffmeta.Write(f, spans, nil); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", e.cfg.Output, err)
	}
	fmt.Fprintf(e.stdout, "✓ Wrote %d chapters to %s\n", len(spans), e.cfg.Output)
	return nil
}

func runEmbed(ctx context.Context, e *env) error {
	video, err := oneVideo(e)
	if err != nil {
		return err
	}

	spans, err := buildSpans(ctx, e.cfg, video)
	if err != nil {
		return err
	}

	manifest, err := ffmeta.WriteTemp(spans, nil)
	if err != nil {
		return fmt.Errorf("failed to write chapter manifest: %w", err)
	}
	defer os.Remove(manifest)

	output := e.cfg.Output
	if output == "" {
		output = outputPath(video, e.cfg.Embed.OutputSuffix)
	}

	duration := spans[len(spans)-1].End
	cmd := embed.NewBuilder(video, manifest, output).
		SetBinary(e.cfg.FFmpegPath).
		SetKeepMetadata(e.cfg.Embed.KeepMetadata).
		SetProgressCallback(duration, func(p *models.Progress) {
			fmt.Fprintf(e.stderr, "\r%s", p.FormatSummary())
			if p.State != models.ProgressStateRunning {
				fmt.Fprintln(e.stderr)
			}
		})

	if e.cfg.DryRun {
		line, err := cmd.DryRun()
		if err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, line)
		return nil
	}

	if err := cmd.Run(ctx); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "✓ Embedded %d chapters into %s\n", len(spans), output)
	return nil
}

func runServe(ctx context.Context, e *env) error {
	if len(e.args) != 0 {
		return usageError("serve takes no arguments")
	}

	h := bridge.NewHandler(platform.Detect()).SetSidecarExt(e.cfg.SidecarExt)
	slog.Debug("serving", "commands", h.Commands())
	return h.Serve(ctx, e.stdin, e.stdout)
}

func runConfig(_ context.Context, e *env) error {
	e.cfg.PrintConfig(e.stdout)
	return nil
}

// buildSpans loads the chapter file next to video and resolves it
// against the video's duration.
func buildSpans(ctx context.Context, cfg *config.Config, video string) ([]*models.Span, error) {
	sidecar := store.SidecarPath(video, cfg.SidecarExt)
	list, err := store.Load(sidecar)
	if err != nil {
		return nil, err
	}

	result, err := ffprobe.Probe(ctx, cfg.FFprobePath, video)
	if err != nil {
		return nil, fmt.Errorf("media analysis failed: %w", err)
	}

	spans, err := timeline.NewBuilder(list).
		SetSortByTime(cfg.Embed.SortChapters).
		Build(result)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sidecar, err)
	}
	slog.Debug("resolved chapters", "sidecar", sidecar, "count", len(spans))
	return spans, nil
}

func oneVideo(e *env) (string, error) {
	if len(e.args) != 1 {
		return "", usageError("exactly one video is required")
	}
	return e.args[0], nil
}

// outputPath inserts suffix before the extension: talk.mp4 -> talk.chapters.mp4
func outputPath(video, suffix string) string {
	ext := filepath.Ext(video)
	return strings.TrimSuffix(video, ext) + suffix + ext
}

// withMilliseconds rewrites recognized times in the requested form.
// Unrecognized times are left as they are.
func withMilliseconds(list models.ChapterList, include bool) models.ChapterList {
	out := make(models.ChapterList, len(list))
	for i, c := range list {
		if tp, ok := timeutil.ParseDisplayString(c.Time); ok {
			c.Time = tp.Format(include)
		}
		out[i] = c
	}
	return out
}

func writeList(w io.Writer, list models.ChapterList) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintln(w, chapterlist.Serialize(list))
}
