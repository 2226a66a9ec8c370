package media

import (
	"strings"
	"testing"
)

func TestFmtSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.000"},
		{1.5, "1.500"},
		{63.2, "63.200"},
		{0.0005, "0.001"},
	}
	for _, tt := range tests {
		if got := fmtSeconds(tt.in); got != tt.want {
			t.Errorf("fmtSeconds(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeFilterPath(t *testing.T) {
	got := escapeFilterPath(`C:\tmp\subs.srt`)
	if !strings.Contains(got, `\\`) || !strings.Contains(got, `\:`) {
		t.Errorf("expected escaped backslashes and colons, got %q", got)
	}

	plain := escapeFilterPath("/tmp/run/subs.srt")
	if plain != "/tmp/run/subs.srt" {
		t.Errorf("plain path should be unchanged, got %q", plain)
	}
}
