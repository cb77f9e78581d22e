package acquire

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	_ "image/gif"  // register decoders for DecodeConfig
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// probeReadLimit caps how much of an image is fetched for a dimension
// probe. Headers for all supported formats sit well inside 512KiB.
const probeReadLimit = 512 << 10

// HTTPProber resolves image dimensions by fetching the image head and
// decoding only its configuration, not the pixel data.
type HTTPProber struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPProber creates a prober with a dedicated short-timeout client.
func NewHTTPProber(userAgent string) *HTTPProber {
	return &HTTPProber{
		Client:    &http.Client{Timeout: 10 * time.Second},
		UserAgent: userAgent,
	}
}

// Probe implements DimensionProber.
func (p *HTTPProber) Probe(ctx context.Context, rawURL string) (int, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("probe: new request: %w", err)
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("probe: get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("probe: http %d", resp.StatusCode)
	}

	cfg, _, err := image.DecodeConfig(io.LimitReader(resp.Body, probeReadLimit))
	if err != nil {
		return 0, 0, fmt.Errorf("probe: decode config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
