package videosearch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/kudosx/claude-skill-browser-use/acquire"
	"github.com/kudosx/claude-skill-browser-use/browser"
)

const (
	resultsMaxScrolls   = 8
	resultsScrollStep   = 3000
	resultsScrollSettle = 800 * time.Millisecond
)

// BrowserTier scrapes the YouTube results page in a stealth tab. Last
// resort for when both API-shaped tiers fail; it sees exactly what a
// signed-out visitor sees.
type BrowserTier struct {
	Browser *browser.Manager
	Logger  *slog.Logger
}

func NewBrowserTier(mgr *browser.Manager, logger *slog.Logger) *BrowserTier {
	if logger == nil {
		logger = slog.Default()
	}
	return &BrowserTier{Browser: mgr, Logger: logger}
}

func (t *BrowserTier) Name() string { return "video-browser" }

func (t *BrowserTier) Fetch(ctx context.Context, query string, countHint int, filters acquire.Constraints) (*acquire.TierResult, error) {
	pageURL := resultsURL(query, filters)

	tab, err := browser.OpenTab(ctx, t.Browser, pageURL)
	if err != nil {
		return nil, fmt.Errorf("videosearch: browser tier: %w", err)
	}
	defer tab.Close()

	dismissYouTubeConsent(ctx, tab)

	out := &acquire.TierResult{}
	seen := make(map[string]bool)

	for scroll := 0; scroll <= resultsMaxScrolls; scroll++ {
		html, err := tab.HTML(ctx)
		if err != nil {
			return nil, fmt.Errorf("videosearch: browser tier: %w", err)
		}

		cands, err := parseResultsPage(html)
		if err != nil {
			return nil, fmt.Errorf("videosearch: browser tier: %w", err)
		}
		for _, c := range cands {
			if seen[c.SourceURL] {
				continue
			}
			seen[c.SourceURL] = true
			c.Tier = t.Name()
			out.Candidates = append(out.Candidates, c)
		}

		if len(out.Candidates) >= countHint {
			break
		}
		if err := tab.ScrollBy(ctx, resultsScrollStep, resultsScrollSettle); err != nil {
			t.Logger.Debug("videosearch: scroll stopped", "error", err)
			break
		}
	}

	if len(out.Candidates) == 0 {
		return nil, fmt.Errorf("videosearch: browser tier: no result renderers on page")
	}

	out.Exhausted = len(out.Candidates) < countHint
	t.Logger.Info("videosearch: browser tier done",
		"query", query, "found", len(out.Candidates), "hint", countHint)
	return out, nil
}

// resultsURL builds the results-page URL, with the sp duration bucket
// escaped for URL use when one applies.
func resultsURL(query string, filters acquire.Constraints) string {
	q := url.Values{}
	q.Set("search_query", query)
	pageURL := "https://www.youtube.com/results?" + q.Encode()
	if sp := spParam(filters); sp != "" {
		pageURL += "&sp=" + url.QueryEscape(sp)
	}
	return pageURL
}

// parseResultsPage pulls video entries out of the rendered results DOM.
func parseResultsPage(html string) ([]acquire.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}

	var cands []acquire.Candidate
	doc.Find("ytd-video-renderer").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a#video-title")
		href, _ := link.Attr("href")
		id := videoIDFromHref(href)
		if id == "" {
			return
		}

		c := acquire.Candidate{SourceURL: watchURL(id)}
		if title, ok := link.Attr("title"); ok {
			c.Meta.Title = title
		} else {
			c.Meta.Title = strings.TrimSpace(link.Text())
		}
		c.Meta.Channel = strings.TrimSpace(s.Find("ytd-channel-name a").First().Text())
		c.Meta.DurationSec = parseClock(
			s.Find("ytd-thumbnail-overlay-time-status-renderer span").First().Text())
		c.Meta.Views = parseViews(s.Find("#metadata-line span").First().Text())
		cands = append(cands, c)
	})
	return cands, nil
}

// videoIDFromHref extracts the v parameter from "/watch?v=..." hrefs.
// Shorts and playlist links are dropped.
func videoIDFromHref(href string) string {
	if !strings.HasPrefix(href, "/watch") {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Query().Get("v")
}

// dismissYouTubeConsent clicks the consent dialog's accept button when the
// region shows one.
func dismissYouTubeConsent(ctx context.Context, tab *browser.Tab) {
	clickCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_ = tab.Click(clickCtx, `button[aria-label*="Accept"]`)
}
