package cards

import (
	"strings"
	"testing"
	"time"
)

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret(""); got != "" {
		t.Errorf("MaskSecret(\"\") = %q, want empty", got)
	}
	short := MaskSecret("ab")
	long := MaskSecret("a-very-long-password-here")
	if short != long {
		t.Errorf("Mask must not leak length: %q vs %q", short, long)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.size); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestFormatRelative(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-48 * time.Hour), "2d ago"},
		{now.Add(-90 * 24 * time.Hour), "2025-03-17"},
		{time.Time{}, "never"},
	}
	for _, tt := range tests {
		if got := FormatRelative(tt.t, now); got != tt.want {
			t.Errorf("FormatRelative(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestRenderNotesDiffIdentical(t *testing.T) {
	if got := RenderNotesDiff("same", "same"); got != "(notes are identical)" {
		t.Errorf("Identical notes: got %q", got)
	}
}

func TestRenderNotesDiffMarksChanges(t *testing.T) {
	out := RenderNotesDiff("local line", "remote line")
	if !strings.Contains(out, "+ local") {
		t.Errorf("Diff should mark local addition, got:\n%s", out)
	}
	if !strings.Contains(out, "- remote") {
		t.Errorf("Diff should mark remote removal, got:\n%s", out)
	}
}
