package imagesearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kudosx/claude-skill-browser-use/acquire"
	"github.com/kudosx/claude-skill-browser-use/apifetch"
)

// APITier queries a JSON image search API (typically a metasearch
// instance) without opening a browser. It is the cheapest tier and runs
// first.
type APITier struct {
	// URLTemplate contains {query} and {count} placeholders, e.g.
	// "https://searx.example.org/search?q={query}&categories=images&format=json".
	URLTemplate string
	Config      apifetch.Config
	Client      *http.Client
	Timeout     time.Duration
}

// NewAPITier fills in client and timeout defaults.
func NewAPITier(urlTemplate string, cfg apifetch.Config) *APITier {
	return &APITier{
		URLTemplate: urlTemplate,
		Config:      cfg,
		Client:      &http.Client{Timeout: 20 * time.Second},
		Timeout:     20 * time.Second,
	}
}

func (t *APITier) Name() string { return "image-api" }

// Fetch expands the URL template and extracts candidates from the JSON
// response. Width and height come straight from the API when it reports
// them, so dimension filtering can often skip the probe.
func (t *APITier) Fetch(ctx context.Context, query string, countHint int, _ acquire.Constraints) (*acquire.TierResult, error) {
	if t.URLTemplate == "" {
		return nil, fmt.Errorf("imagesearch: %w: no API endpoint configured", acquire.ErrTierUnavailable)
	}

	endpoint := strings.ReplaceAll(t.URLTemplate, "{query}", url.QueryEscape(query))
	endpoint = strings.ReplaceAll(endpoint, "{count}", strconv.Itoa(countHint))

	fetchCtx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	results, err := apifetch.Fetch(fetchCtx, t.Client, endpoint, t.Config)
	if err != nil {
		return nil, fmt.Errorf("imagesearch: api tier: %w", err)
	}

	out := &acquire.TierResult{}
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		out.Candidates = append(out.Candidates, acquire.Candidate{
			SourceURL: r.URL,
			Tier:      t.Name(),
			Meta: acquire.Metadata{
				Title:  r.Title,
				Width:  r.Width,
				Height: r.Height,
			},
		})
		if len(out.Candidates) >= countHint {
			break
		}
	}
	return out, nil
}
