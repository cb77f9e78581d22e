package videosearch

import (
	"strings"
	"testing"

	"github.com/kudosx/claude-skill-browser-use/acquire"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"0:45", 45},
		{"4:30", 270},
		{"12:05", 725},
		{"1:02:03", 3723},
		{" 10:00 ", 600},
		{"LIVE", 0},
		{"", 0},
		{"1:2:3:4", 0},
		{"-1:00", 0},
	}

	for _, tt := range tests {
		if got := parseClock(tt.in); got != tt.want {
			t.Errorf("parseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseViews(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1,234,567 views", 1234567},
		{"42 views", 42},
		{"No views", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := parseViews(tt.in); got != tt.want {
			t.Errorf("parseViews(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSPParam(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		want     string
	}{
		{"no bounds", 0, 0, ""},
		{"short", 0, 3, spShort},
		{"short at boundary", 0, 4, spShort},
		{"long", 25, 0, spLong},
		{"long at boundary", 20, 0, spLong},
		{"medium", 5, 15, spMedium},
		{"straddles buckets", 2, 30, ""},
	}

	for _, tt := range tests {
		got := spParam(acquire.Constraints{
			Count: 1, MinDuration: tt.min, MaxDuration: tt.max,
		})
		if got != tt.want {
			t.Errorf("%s: spParam = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSPParam_RawBase64(t *testing.T) {
	// The InnerTube request body carries the bucket verbatim, so the
	// constants must not be URL-escaped.
	for _, sp := range []string{spShort, spLong, spMedium} {
		if strings.Contains(sp, "%") {
			t.Errorf("sp bucket %q is URL-escaped; the API expects raw base64", sp)
		}
		if !strings.HasSuffix(sp, "==") {
			t.Errorf("sp bucket %q missing base64 padding", sp)
		}
	}
}

func TestWatchURL(t *testing.T) {
	if got := watchURL("dQw4w9WgXcQ"); got != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("watchURL = %q", got)
	}
}
