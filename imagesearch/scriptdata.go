package imagesearch

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kudosx/claude-skill-browser-use/acquire"
	"github.com/kudosx/claude-skill-browser-use/browser"
)

// Google inlines result URLs into script data as ["url",height,width]
// triples. Thumbnail CDN entries are interleaved with the real sources and
// must be skipped.
var scriptImageRe = regexp.MustCompile(`\["(https?://[^"]+)",(\d+),(\d+)\]`)

const (
	maxScrolls      = 10
	scrollStep      = 2000
	scrollSettle    = 700 * time.Millisecond
	thumbnailHost   = "encrypted-tbn0.gstatic.com"
	consentSelector = "button#L2AGLb"
)

// ScriptTier loads the Google Images results page in a stealth tab and
// extracts full-resolution source URLs from the inlined script data. No
// clicking, no per-result navigation; one page load plus scrolling.
type ScriptTier struct {
	Browser *browser.Manager
	Size    SizeFilter
	Logger  *slog.Logger
}

func NewScriptTier(mgr *browser.Manager, size SizeFilter, logger *slog.Logger) *ScriptTier {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScriptTier{Browser: mgr, Size: size, Logger: logger}
}

func (t *ScriptTier) Name() string { return "image-script" }

func (t *ScriptTier) Fetch(ctx context.Context, query string, countHint int, _ acquire.Constraints) (*acquire.TierResult, error) {
	tab, err := browser.OpenTab(ctx, t.Browser, searchURL(query, t.Size))
	if err != nil {
		return nil, fmt.Errorf("imagesearch: script tier: %w", err)
	}
	defer tab.Close()

	dismissConsent(ctx, tab)

	seen := make(map[string]bool)
	out := &acquire.TierResult{}

	for scroll := 0; scroll <= maxScrolls; scroll++ {
		html, err := tab.HTML(ctx)
		if err != nil {
			return nil, fmt.Errorf("imagesearch: script tier: %w", err)
		}

		for _, m := range scriptImageRe.FindAllStringSubmatch(html, -1) {
			raw := decodeJSString(m[1])
			if strings.Contains(raw, thumbnailHost) {
				continue
			}
			if seen[raw] {
				continue
			}
			seen[raw] = true

			height, _ := strconv.Atoi(m[2])
			width, _ := strconv.Atoi(m[3])
			out.Candidates = append(out.Candidates, acquire.Candidate{
				SourceURL: raw,
				Tier:      t.Name(),
				Meta:      acquire.Metadata{Width: width, Height: height},
			})
		}

		if len(out.Candidates) >= countHint {
			break
		}
		if err := tab.ScrollBy(ctx, scrollStep, scrollSettle); err != nil {
			t.Logger.Debug("imagesearch: scroll stopped", "error", err)
			break
		}
	}

	out.Exhausted = len(out.Candidates) < countHint
	t.Logger.Info("imagesearch: script tier done",
		"query", query, "found", len(out.Candidates), "hint", countHint)
	return out, nil
}

// decodeJSString resolves \uXXXX and other escapes in a JS string literal.
// Falls back to the raw text when the escape sequence is malformed.
func decodeJSString(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	decoded, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return s
	}
	return decoded
}

// dismissConsent clicks Google's cookie consent button when present. The
// dialog only appears on some regions and that is fine.
func dismissConsent(ctx context.Context, tab *browser.Tab) {
	clickCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_ = tab.Click(clickCtx, consentSelector)
}
