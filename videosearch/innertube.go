package videosearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kudosx/claude-skill-browser-use/acquire"
)

const defaultInnertubeURL = "https://www.youtube.com/youtubei/v1/search?prettyPrint=false"

// innertubeClient is the web client identity the search endpoint expects.
var innertubeClient = map[string]any{
	"clientName":    "WEB",
	"clientVersion": "2.20240101.00.00",
	"hl":            "en",
	"gl":            "US",
}

// InnerTubeTier posts to YouTube's internal search API and walks the
// response for videoRenderer entries. No API key beyond the public web
// client context, no browser.
type InnerTubeTier struct {
	Client   *http.Client
	Endpoint string
	Timeout  time.Duration
	Logger   *slog.Logger
}

func NewInnerTubeTier(logger *slog.Logger) *InnerTubeTier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InnerTubeTier{
		Client:   &http.Client{Timeout: 20 * time.Second},
		Endpoint: defaultInnertubeURL,
		Timeout:  20 * time.Second,
		Logger:   logger,
	}
}

func (t *InnerTubeTier) Name() string { return "video-innertube" }

func (t *InnerTubeTier) Fetch(ctx context.Context, query string, countHint int, filters acquire.Constraints) (*acquire.TierResult, error) {
	payload := map[string]any{
		"context": map[string]any{"client": innertubeClient},
		"query":   query,
	}
	if sp := spParam(filters); sp != "" {
		payload["params"] = sp
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("videosearch: innertube: encode: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	endpoint := t.Endpoint
	if endpoint == "" {
		endpoint = defaultInnertubeURL
	}
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("videosearch: innertube: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("videosearch: innertube: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("videosearch: innertube: http %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 20*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("videosearch: innertube: read: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("videosearch: innertube: decode: %w", err)
	}

	var renderers []map[string]any
	collectRenderers(doc, &renderers)

	out := &acquire.TierResult{}
	for _, r := range renderers {
		c, ok := candidateFromRenderer(r)
		if !ok {
			continue
		}
		c.Tier = t.Name()
		out.Candidates = append(out.Candidates, c)
		if len(out.Candidates) >= countHint {
			break
		}
	}

	out.Exhausted = len(out.Candidates) < countHint
	t.Logger.Info("videosearch: innertube tier done",
		"query", query, "found", len(out.Candidates), "hint", countHint)
	return out, nil
}

// collectRenderers walks the response tree depth-first collecting every
// videoRenderer object. The surrounding shell layout changes often; the
// renderer shape does not.
func collectRenderers(v any, out *[]map[string]any) {
	switch node := v.(type) {
	case map[string]any:
		if vr, ok := node["videoRenderer"].(map[string]any); ok {
			*out = append(*out, vr)
			return
		}
		for _, child := range node {
			collectRenderers(child, out)
		}
	case []any:
		for _, child := range node {
			collectRenderers(child, out)
		}
	}
}

func candidateFromRenderer(r map[string]any) (acquire.Candidate, bool) {
	id, _ := r["videoId"].(string)
	if id == "" {
		return acquire.Candidate{}, false
	}

	c := acquire.Candidate{SourceURL: watchURL(id)}
	c.Meta.Title = runsText(r["title"])
	c.Meta.Channel = runsText(r["ownerText"])
	c.Meta.DurationSec = parseClock(simpleText(r["lengthText"]))
	c.Meta.Views = parseViews(simpleText(r["viewCountText"]))
	return c, true
}

// runsText extracts {"runs":[{"text":...}]} style text.
func runsText(v any) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	runs, ok := obj["runs"].([]any)
	if !ok || len(runs) == 0 {
		return simpleText(v)
	}
	first, ok := runs[0].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := first["text"].(string)
	return s
}

// simpleText extracts {"simpleText":...} style text.
func simpleText(v any) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := obj["simpleText"].(string)
	return s
}
