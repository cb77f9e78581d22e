package imagesearch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/kudosx/claude-skill-browser-use/acquire"
	"github.com/kudosx/claude-skill-browser-use/browser"
)

// minDataURIBytes rejects the tiny base64 placeholders Google uses while
// the full preview is still loading.
const minDataURIBytes = 1000

// Full-resolution preview image, in selector preference order. Google
// rotates class names, so several generations are tried.
var previewSelectors = []string{
	`img.sFlh5c.FyHeAf.iPVvYb`,
	`img[jsname="kn3ccd"]`,
	`a[href] img[src^="http"]:not([src*="gstatic.com"])`,
}

const thumbSelector = `div[jsname="dTDiAc"], div[data-ri]`

// GalleryTier clicks each result thumbnail and reads the full-resolution
// source from the preview panel. Slowest tier, but it reaches sources the
// script data omits, including inline data: URIs. Runs last.
type GalleryTier struct {
	Browser *browser.Manager
	Size    SizeFilter
	Logger  *slog.Logger
	// ClickTimeout bounds the wait for each preview to load.
	ClickTimeout time.Duration
}

func NewGalleryTier(mgr *browser.Manager, size SizeFilter, logger *slog.Logger) *GalleryTier {
	if logger == nil {
		logger = slog.Default()
	}
	return &GalleryTier{Browser: mgr, Size: size, Logger: logger, ClickTimeout: 4 * time.Second}
}

func (t *GalleryTier) Name() string { return "image-gallery" }

func (t *GalleryTier) Fetch(ctx context.Context, query string, countHint int, _ acquire.Constraints) (*acquire.TierResult, error) {
	// This tier reads image bytes, so the configured block list must not
	// apply here.
	tab, err := browser.OpenTab(ctx, t.Browser, searchURL(query, t.Size),
		browser.WithoutResourceBlocking())
	if err != nil {
		return nil, fmt.Errorf("imagesearch: gallery tier: %w", err)
	}
	defer tab.Close()

	dismissConsent(ctx, tab)

	thumbs, err := tab.Page.Context(ctx).Elements(thumbSelector)
	if err != nil {
		return nil, fmt.Errorf("imagesearch: gallery tier: thumbnails: %w", err)
	}
	if len(thumbs) == 0 {
		return nil, fmt.Errorf("imagesearch: gallery tier: no thumbnails on results page")
	}

	seen := make(map[string]bool)
	out := &acquire.TierResult{}

	for _, thumb := range thumbs {
		if ctx.Err() != nil {
			break
		}
		if len(out.Candidates) >= countHint {
			break
		}

		if err := thumb.Click(proto.InputMouseButtonLeft, 1); err != nil {
			t.Logger.Debug("imagesearch: thumbnail click failed", "error", err)
			continue
		}

		src := t.waitPreview(ctx, tab)
		_ = tab.PressEscape()

		if src == "" || seen[src] {
			continue
		}
		seen[src] = true
		out.Candidates = append(out.Candidates, acquire.Candidate{
			SourceURL: src,
			Tier:      t.Name(),
		})
	}

	out.Exhausted = true
	t.Logger.Info("imagesearch: gallery tier done",
		"query", query, "found", len(out.Candidates), "clicked", len(thumbs))
	return out, nil
}

// waitPreview polls the preview selectors until one yields a usable source
// or the click timeout elapses.
func (t *GalleryTier) waitPreview(ctx context.Context, tab *browser.Tab) string {
	deadline := time.Now().Add(t.ClickTimeout)
	for time.Now().Before(deadline) {
		for _, sel := range previewSelectors {
			src, err := tab.ElementAttr(ctx, sel, "src", 500*time.Millisecond)
			if err != nil {
				continue
			}
			if usableSource(src) {
				return src
			}
		}
		select {
		case <-time.After(200 * time.Millisecond):
		case <-ctx.Done():
			return ""
		}
	}
	return ""
}

// usableSource accepts http(s) URLs that are not thumbnail CDN entries, and
// data: URIs whose decoded payload clears the placeholder threshold.
func usableSource(src string) bool {
	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return !strings.Contains(src, thumbnailHost)
	case strings.HasPrefix(src, "data:image/"):
		i := strings.Index(src, ",")
		if i < 0 {
			return false
		}
		// base64 expands 3 payload bytes to 4 characters.
		return len(src[i+1:])*3/4 >= minDataURIBytes
	default:
		return false
	}
}
