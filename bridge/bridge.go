// Package bridge exposes the chapter operations as named JSON commands.
//
// A front end sends one Request per call and receives one Response.
// Serve runs the same dispatcher over newline-delimited JSON, which is
// what the "serve" CLI command uses on stdin and stdout.
package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"chapteredit/chapterlist"
	"chapteredit/internal/timeutil"
	"chapteredit/models"
	"chapteredit/platform"
	"chapteredit/store"
)

// Command names accepted by Dispatch.
const (
	CmdLoadChapters         = "load_chapters"
	CmdSaveChapters         = "save_chapters"
	CmdParseYouTubeChapters = "parse_youtube_chapters"
	CmdFormatTime           = "format_time"
	CmdParseTime            = "parse_time"
	CmdGetPlatform          = "get_platform"
	CmdSortChapters         = "sort_chapters"
	CmdSidecarPath          = "sidecar_path"
)

// maxLineSize bounds a single request line in Serve.
const maxLineSize = 16 * 1024 * 1024

// Request is one call into the dispatcher.
type Request struct {
	ID      json.RawMessage `json:"id,omitempty"`
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// Response is the result of one Request. Exactly one of Result and Error
// is meaningful; a null Result with an empty Error is a valid answer.
type Response struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Result any             `json:"result"`
	Error  string          `json:"error,omitempty"`
}

// Args carries every argument any command takes. Each command reads only
// the fields it needs.
type Args struct {
	FilePath     string             `json:"filePath"`
	Chapters     models.ChapterList `json:"chapters"`
	Text         string             `json:"text"`
	Milliseconds *float64           `json:"milliseconds"`
	TimeStr      string             `json:"timeStr"`
	VideoPath    string             `json:"videoPath"`
}

// Handler dispatches requests. The zero value is not usable; create one
// with NewHandler.
type Handler struct {
	platform   platform.Platform
	sidecarExt string
	handlers   map[string]func(context.Context, Args) (any, error)
}

// NewHandler creates a Handler reporting p from get_platform.
func NewHandler(p platform.Platform) *Handler {
	h := &Handler{
		platform:   p,
		sidecarExt: store.DefaultExt,
	}
	h.handlers = map[string]func(context.Context, Args) (any, error){
		CmdLoadChapters:         h.loadChapters,
		CmdSaveChapters:         h.saveChapters,
		CmdParseYouTubeChapters: h.parseYouTubeChapters,
		CmdFormatTime:           h.formatTime,
		CmdParseTime:            h.parseTime,
		CmdGetPlatform:          h.getPlatform,
		CmdSortChapters:         h.sortChapters,
		CmdSidecarPath:          h.sidecarPath,
	}
	return h
}

// SetSidecarExt sets the extension used by sidecar_path.
func (h *Handler) SetSidecarExt(ext string) *Handler {
	if ext != "" {
		h.sidecarExt = ext
	}
	return h
}

// Commands returns the names of all supported commands.
func (h *Handler) Commands() []string {
	return []string{
		CmdLoadChapters, CmdSaveChapters, CmdParseYouTubeChapters,
		CmdFormatTime, CmdParseTime, CmdGetPlatform,
		CmdSortChapters, CmdSidecarPath,
	}
}

// Dispatch runs one request. Failures are reported in Response.Error.
func (h *Handler) Dispatch(ctx context.Context, req Request) Response {
	resp := Response{ID: req.ID}

	fn, ok := h.handlers[req.Command]
	if !ok {
		resp.Error = fmt.Sprintf("unknown command '%s'", req.Command)
		return resp
	}

	var args Args
	if len(req.Args) > 0 && string(req.Args) != "null" {
		if err := json.Unmarshal(req.Args, &args); err != nil {
			resp.Error = fmt.Sprintf("invalid arguments for %s: %v", req.Command, err)
			return resp
		}
	}

	if err := ctx.Err(); err != nil {
		resp.Error = err.Error()
		return resp
	}

	result, err := fn(ctx, args)
	if err != nil {
		slog.Debug("command failed", "command", req.Command, "error", err)
		resp.Error = err.Error()
		return resp
	}
	resp.Result = result
	return resp
}

// Serve reads newline-delimited requests from r and writes one response
// line per request to w, until r is exhausted or ctx is cancelled.
//
// A line that is not valid JSON gets an error response and does not stop
// the loop.
func (h *Handler) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp Response
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			resp.Error = fmt.Sprintf("invalid request: %v", err)
		} else {
			resp = h.Dispatch(ctx, req)
		}

		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	return nil
}

func (h *Handler) loadChapters(_ context.Context, a Args) (any, error) {
	return store.Load(a.FilePath)
}

func (h *Handler) saveChapters(_ context.Context, a Args) (any, error) {
	if a.Chapters == nil {
		a.Chapters = models.ChapterList{}
	}
	return nil, store.Save(a.FilePath, a.Chapters)
}

func (h *Handler) parseYouTubeChapters(_ context.Context, a Args) (any, error) {
	return chapterlist.ParseFreeText(a.Text), nil
}

func (h *Handler) formatTime(_ context.Context, a Args) (any, error) {
	if a.Milliseconds == nil {
		return nil, fmt.Errorf("milliseconds is required")
	}
	return timeutil.FormatMilliseconds(*a.Milliseconds), nil
}

func (h *Handler) parseTime(_ context.Context, a Args) (any, error) {
	ms, ok := timeutil.ParseMilliseconds(a.TimeStr)
	if !ok {
		return nil, nil
	}
	return ms, nil
}

func (h *Handler) getPlatform(_ context.Context, _ Args) (any, error) {
	return h.platform.String(), nil
}

func (h *Handler) sortChapters(_ context.Context, a Args) (any, error) {
	sorted := a.Chapters.SortByTime()
	return sorted, nil
}

func (h *Handler) sidecarPath(_ context.Context, a Args) (any, error) {
	if a.VideoPath == "" {
		return nil, fmt.Errorf("videoPath is required")
	}
	return store.SidecarPath(a.VideoPath, h.sidecarExt), nil
}
