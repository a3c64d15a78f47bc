package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"chapteredit/models"
	"chapteredit/platform"
)

func dispatch(t *testing.T, h *Handler, command string, args any) Response {
	t.Helper()
	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("failed to marshal args: %v", err)
	}
	return h.Dispatch(context.Background(), Request{Command: command, Args: raw})
}

func TestDispatch_FormatAndParseTime(t *testing.T) {
	h := NewHandler(platform.Linux)

	resp := dispatch(t, h, CmdFormatTime, map[string]any{"milliseconds": 3723500})
	if resp.Error != "" || resp.Result != "1:02:03.500" {
		t.Errorf("format_time = %v (%s); want 1:02:03.500", resp.Result, resp.Error)
	}

	resp = dispatch(t, h, CmdParseTime, map[string]any{"timeStr": "1:02:03.500"})
	if resp.Error != "" || resp.Result != float64(3723500) {
		t.Errorf("parse_time = %v (%s); want 3723500", resp.Result, resp.Error)
	}

	resp = dispatch(t, h, CmdParseTime, map[string]any{"timeStr": "1:30"})
	if resp.Error != "" || resp.Result != nil {
		t.Errorf("parse_time of unrecognized string = %v (%s); want null", resp.Result, resp.Error)
	}

	resp = dispatch(t, h, CmdFormatTime, map[string]any{})
	if !strings.Contains(resp.Error, "milliseconds is required") {
		t.Errorf("Expected missing milliseconds error, got %q", resp.Error)
	}
}

func TestDispatch_ParseYouTubeChapters(t *testing.T) {
	h := NewHandler(platform.Linux)

	resp := dispatch(t, h, CmdParseYouTubeChapters, map[string]any{"text": "0:00 Intro\n1:30 Verse"})
	if resp.Error != "" {
		t.Fatalf("Unexpected error: %s", resp.Error)
	}

	expected := models.ChapterList{
		{Time: "0:00:00.000", Title: "Intro"},
		{Time: "0:01:30.000", Title: "Verse"},
	}
	if !reflect.DeepEqual(resp.Result, expected) {
		t.Errorf("Expected %+v, got %+v", expected, resp.Result)
	}

	resp = dispatch(t, h, CmdParseYouTubeChapters, map[string]any{"text": "no times here"})
	if list, ok := resp.Result.(models.ChapterList); !ok || len(list) != 0 {
		t.Errorf("Expected empty list, got %#v", resp.Result)
	}
}

func TestDispatch_SaveAndLoad(t *testing.T) {
	h := NewHandler(platform.Linux)
	path := filepath.Join(t.TempDir(), "movie.txt")
	chapters := models.ChapterList{
		{Time: "0:00:00.000", Title: "Intro"},
		{Time: "0:01:30.000", Title: "Verse"},
	}

	resp := dispatch(t, h, CmdSaveChapters, map[string]any{"filePath": path, "chapters": chapters})
	if resp.Error != "" || resp.Result != nil {
		t.Fatalf("save_chapters = %v (%s)", resp.Result, resp.Error)
	}

	resp = dispatch(t, h, CmdLoadChapters, map[string]any{"filePath": path})
	if resp.Error != "" {
		t.Fatalf("load_chapters failed: %s", resp.Error)
	}
	if !reflect.DeepEqual(resp.Result, chapters) {
		t.Errorf("Expected %+v, got %+v", chapters, resp.Result)
	}
}

func TestDispatch_LoadMissingFile(t *testing.T) {
	h := NewHandler(platform.Linux)
	path := filepath.Join(t.TempDir(), "missing.txt")

	resp := dispatch(t, h, CmdLoadChapters, map[string]any{"filePath": path})
	if !strings.Contains(resp.Error, "failed to load file") {
		t.Errorf("Expected load failure, got %q", resp.Error)
	}
	if resp.Result != nil {
		t.Errorf("Expected nil result, got %v", resp.Result)
	}
}

func TestDispatch_GetPlatform(t *testing.T) {
	for _, p := range platform.Values() {
		resp := dispatch(t, NewHandler(p), CmdGetPlatform, nil)
		if resp.Result != p.String() {
			t.Errorf("get_platform = %v; want %s", resp.Result, p)
		}
	}
}

func TestDispatch_SortChapters(t *testing.T) {
	h := NewHandler(platform.Linux)
	chapters := models.ChapterList{
		{Time: "0:03:00.000", Title: "Chorus"},
		{Time: "0:00:00.000", Title: "Intro"},
	}

	resp := dispatch(t, h, CmdSortChapters, map[string]any{"chapters": chapters})
	expected := models.ChapterList{
		{Time: "0:00:00.000", Title: "Intro"},
		{Time: "0:03:00.000", Title: "Chorus"},
	}
	if !reflect.DeepEqual(resp.Result, expected) {
		t.Errorf("Expected %+v, got %+v", expected, resp.Result)
	}
}

func TestDispatch_SidecarPath(t *testing.T) {
	h := NewHandler(platform.Linux)

	resp := dispatch(t, h, CmdSidecarPath, map[string]any{"videoPath": "/videos/talk.mp4"})
	if resp.Result != "/videos/talk.txt" {
		t.Errorf("sidecar_path = %v; want /videos/talk.txt", resp.Result)
	}

	resp = dispatch(t, h.SetSidecarExt(".chapters"), CmdSidecarPath, map[string]any{"videoPath": "/videos/talk.mp4"})
	if resp.Result != "/videos/talk.chapters" {
		t.Errorf("sidecar_path = %v; want /videos/talk.chapters", resp.Result)
	}
}

func TestDispatch_Errors(t *testing.T) {
	h := NewHandler(platform.Linux)

	tests := []struct {
		name          string
		req           Request
		errorContains string
	}{
		{"Unknown command", Request{Command: "delete_everything"}, "unknown command 'delete_everything'"},
		{"Bad args", Request{Command: CmdFormatTime, Args: json.RawMessage(`{"milliseconds":"soon"}`)}, "invalid arguments for format_time"},
		{"Args not an object", Request{Command: CmdParseTime, Args: json.RawMessage(`[1,2]`)}, "invalid arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := h.Dispatch(context.Background(), tt.req)
			if !strings.Contains(resp.Error, tt.errorContains) {
				t.Errorf("Expected error containing '%s', got '%s'", tt.errorContains, resp.Error)
			}
		})
	}
}

func TestDispatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := NewHandler(platform.Linux).Dispatch(ctx, Request{Command: CmdGetPlatform})
	if resp.Error == "" {
		t.Error("Expected error for cancelled context")
	}
}

func TestCommands(t *testing.T) {
	h := NewHandler(platform.Linux)
	for _, name := range h.Commands() {
		if _, ok := h.handlers[name]; !ok {
			t.Errorf("Command %s has no handler", name)
		}
	}
	if len(h.Commands()) != len(h.handlers) {
		t.Errorf("Expected %d commands, got %d", len(h.handlers), len(h.Commands()))
	}
}

func TestServe(t *testing.T) {
	h := NewHandler(platform.MacOS)
	input := strings.Join([]string{
		`{"id":1,"command":"get_platform"}`,
		``,
		`not json`,
		`{"id":"b","command":"format_time","args":{"milliseconds":90000}}`,
		`{"id":3,"command":"nope"}`,
	}, "\n")

	var out bytes.Buffer
	if err := h.Serve(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 responses, got %d:\n%s", len(lines), out.String())
	}

	expected := []string{
		`{"id":1,"result":"macos"}`,
		`{"result":null,"error":"invalid request: `,
		`{"id":"b","result":"0:01:30.000"}`,
		`{"id":3,"result":null,"error":"unknown command 'nope'"}`,
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, expected[i]) || (i != 1 && line != expected[i]) {
			t.Errorf("response %d: expected %s, got %s", i+1, expected[i], line)
		}
	}
}

func TestServe_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := NewHandler(platform.Linux).Serve(ctx, strings.NewReader(`{"command":"get_platform"}`+"\n"), &out)
	if err == nil {
		t.Error("Expected error for cancelled context")
	}
	if out.Len() != 0 {
		t.Errorf("Expected no output, got %s", out.String())
	}
}

func TestServe_SaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	req, _ := json.Marshal(Request{
		Command: CmdSaveChapters,
		Args:    json.RawMessage(`{"filePath":` + quoteJSON(path) + `,"chapters":[{"time":"0:00:00","title":"A"}]}`),
	})

	var out bytes.Buffer
	if err := NewHandler(platform.Linux).Serve(context.Background(), bytes.NewReader(req), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected file to be written: %v", err)
	}
	if string(data) != "0:00:00 A" {
		t.Errorf("Expected '0:00:00 A', got %q", data)
	}
}

func quoteJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
