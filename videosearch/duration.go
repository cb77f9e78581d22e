// Package videosearch implements the video tier ladder: a yt-dlp
// subprocess search, the YouTube InnerTube JSON API, and a browser scrape
// of the results page. All tiers emit watch-page URLs; downloading is the
// materializer's job.
package videosearch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kudosx/claude-skill-browser-use/acquire"
)

// parseClock converts "M:SS", "MM:SS", or "H:MM:SS" overlay text to
// seconds. Returns 0 for live badges and anything else unparseable.
func parseClock(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// YouTube's duration prefilter buckets, as raw base64. The InnerTube body
// takes them verbatim; URL building must escape them. Exact bounds are
// still enforced by the constraint filter; the sp parameter just cuts
// wasted results early.
const (
	spShort  = "EgIYAQ==" // under 4 minutes
	spLong   = "EgIYAg==" // over 20 minutes
	spMedium = "EgIYAw==" // 4 to 20 minutes
)

// spParam picks the coarse server-side duration bucket implied by the
// duration constraints, or "" when none applies cleanly.
func spParam(filters acquire.Constraints) string {
	min, max := filters.MinDuration, filters.MaxDuration
	switch {
	case max > 0 && max <= 4:
		return spShort
	case min >= 20:
		return spLong
	case min >= 4 && max > 0 && max <= 20:
		return spMedium
	default:
		return ""
	}
}

// watchURL builds the canonical watch-page URL for a video ID.
func watchURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", id)
}

// parseViews converts "1,234,567 views" style text to a count.
func parseViews(s string) int64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "views"))
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
