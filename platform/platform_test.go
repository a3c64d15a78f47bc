package platform

import (
	"runtime"
	"slices"
	"testing"
)

func TestFromGOOS(t *testing.T) {
	tests := []struct {
		goos     string
		expected Platform
	}{
		{"windows", Windows},
		{"darwin", MacOS},
		{"linux", Linux},
		{"freebsd", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		if got := FromGOOS(tt.goos); got != tt.expected {
			t.Errorf("FromGOOS(%q) = %s; want %s", tt.goos, got, tt.expected)
		}
	}
}

func TestDetect(t *testing.T) {
	got := Detect()
	if !slices.Contains(Values(), got) {
		t.Errorf("Detect() returned %q, not a known platform", got)
	}
	if got != FromGOOS(runtime.GOOS) {
		t.Errorf("Detect() = %s; want %s", got, FromGOOS(runtime.GOOS))
	}
}
