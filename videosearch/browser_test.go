package videosearch

import (
	"strings"
	"testing"

	"github.com/kudosx/claude-skill-browser-use/acquire"
)

const resultsSample = `<html><body>
<ytd-video-renderer>
  <a id="video-title" title="Testing in Go" href="/watch?v=vid000000001&amp;pp=xyz">Testing in Go</a>
  <ytd-thumbnail-overlay-time-status-renderer><span>14:09</span></ytd-thumbnail-overlay-time-status-renderer>
  <ytd-channel-name><a href="/@someone">Some Channel</a></ytd-channel-name>
  <div id="metadata-line"><span>89,210 views</span><span>2 years ago</span></div>
</ytd-video-renderer>
<ytd-video-renderer>
  <a id="video-title" href="/shorts/short0000001">A short, skipped</a>
</ytd-video-renderer>
<ytd-video-renderer>
  <a id="video-title" href="/watch?v=vid000000002">No title attribute</a>
  <ytd-thumbnail-overlay-time-status-renderer><span>LIVE</span></ytd-thumbnail-overlay-time-status-renderer>
</ytd-video-renderer>
</body></html>`

func TestParseResultsPage(t *testing.T) {
	cands, err := parseResultsPage(resultsSample)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 2 {
		t.Fatalf("candidates = %d, want 2 (shorts skipped)", len(cands))
	}

	first := cands[0]
	if first.SourceURL != "https://www.youtube.com/watch?v=vid000000001" {
		t.Errorf("url = %q", first.SourceURL)
	}
	if first.Meta.Title != "Testing in Go" {
		t.Errorf("title = %q", first.Meta.Title)
	}
	if first.Meta.Channel != "Some Channel" {
		t.Errorf("channel = %q", first.Meta.Channel)
	}
	if first.Meta.DurationSec != 14*60+9 {
		t.Errorf("duration = %d", first.Meta.DurationSec)
	}
	if first.Meta.Views != 89210 {
		t.Errorf("views = %d", first.Meta.Views)
	}

	second := cands[1]
	if second.Meta.Title != "No title attribute" {
		t.Errorf("fallback title = %q", second.Meta.Title)
	}
	if second.Meta.DurationSec != 0 {
		t.Errorf("live badge parsed as duration: %d", second.Meta.DurationSec)
	}
}

func TestResultsURL(t *testing.T) {
	got := resultsURL("go testing", acquire.Constraints{Count: 1})
	if got != "https://www.youtube.com/results?search_query=go+testing" {
		t.Errorf("url = %q", got)
	}

	got = resultsURL("go testing", acquire.Constraints{Count: 1, MaxDuration: 4})
	if !strings.HasSuffix(got, "&sp=EgIYAQ%3D%3D") {
		t.Errorf("url = %q, want the short bucket escaped for URL use", got)
	}
}

func TestVideoIDFromHref(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"/watch?v=abc", "abc"},
		{"/watch?v=abc&pp=xyz", "abc"},
		{"/shorts/abc", ""},
		{"/playlist?list=PL1", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := videoIDFromHref(tt.href); got != tt.want {
			t.Errorf("videoIDFromHref(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}
