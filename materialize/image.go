package materialize

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/kudosx/claude-skill-browser-use/acquire"
)

// minImageBytes rejects tracking pixels and truncated responses.
const minImageBytes = 1024

// maxImageBytes bounds a single image download.
const maxImageBytes = 50 * 1024 * 1024

var extByMIME = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/avif":    ".avif",
	"image/svg+xml": ".svg",
	"image/bmp":     ".bmp",
}

// ImageTransfer downloads image candidates over HTTP, plus inline data:
// URIs discovered by the gallery tier.
type ImageTransfer struct {
	Client *http.Client
	// Dir is the destination directory, created on demand.
	Dir string
}

func NewImageTransfer(dir string) *ImageTransfer {
	return &ImageTransfer{
		Client: &http.Client{Timeout: 60 * time.Second},
		Dir:    dir,
	}
}

func (t *ImageTransfer) Transfer(ctx context.Context, c acquire.Candidate) (string, int64, error) {
	if err := os.MkdirAll(t.Dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("materialize: mkdir %s: %w", t.Dir, err)
	}

	if strings.HasPrefix(c.SourceURL, "data:") {
		return t.writeDataURI(c)
	}
	return t.download(ctx, c)
}

func (t *ImageTransfer) download(ctx context.Context, c acquire.Candidate) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SourceURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("materialize: request %s: %w", c.SourceURL, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	resp, err := t.Client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("materialize: get %s: %w", c.SourceURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("materialize: get %s: http %d", c.SourceURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", 0, fmt.Errorf("materialize: read %s: %w", c.SourceURL, err)
	}
	if len(body) < minImageBytes {
		return "", 0, fmt.Errorf("materialize: %s: payload too small (%d bytes)", c.SourceURL, len(body))
	}

	ext := extForResponse(resp.Header.Get("Content-Type"), c.SourceURL)
	dest, err := reservePath(t.Dir, t.baseName(c), ext)
	if err != nil {
		return "", 0, err
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return "", 0, fmt.Errorf("materialize: write %s: %w", dest, err)
	}
	return dest, int64(len(body)), nil
}

// writeDataURI decodes a base64 data: URI payload to disk.
func (t *ImageTransfer) writeDataURI(c acquire.Candidate) (string, int64, error) {
	meta, payload, ok := strings.Cut(c.SourceURL, ",")
	if !ok {
		return "", 0, fmt.Errorf("materialize: malformed data uri")
	}
	if !strings.Contains(meta, ";base64") {
		return "", 0, fmt.Errorf("materialize: unsupported data uri encoding")
	}

	body, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", 0, fmt.Errorf("materialize: data uri decode: %w", err)
	}
	if len(body) < minImageBytes {
		return "", 0, fmt.Errorf("materialize: data uri payload too small (%d bytes)", len(body))
	}

	mimeType := strings.TrimPrefix(meta, "data:")
	mimeType = strings.TrimSuffix(mimeType, ";base64")
	ext := extByMIME[mimeType]
	if ext == "" {
		ext = ".bin"
	}

	dest, err := reservePath(t.Dir, t.baseName(c), ext)
	if err != nil {
		return "", 0, err
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return "", 0, fmt.Errorf("materialize: write %s: %w", dest, err)
	}
	return dest, int64(len(body)), nil
}

// baseName prefers the candidate's title; otherwise the URL path base.
func (t *ImageTransfer) baseName(c acquire.Candidate) string {
	if c.Meta.Title != "" {
		return sanitizeBase(c.Meta.Title)
	}
	if u, err := url.Parse(c.SourceURL); err == nil && u.Path != "" {
		base := path.Base(u.Path)
		base = strings.TrimSuffix(base, path.Ext(base))
		if base != "" && base != "/" && base != "." {
			return sanitizeBase(base)
		}
	}
	return "image"
}

// extForResponse picks a file extension from the Content-Type header,
// falling back to the URL path and then to .jpg.
func extForResponse(contentType, rawURL string) string {
	if contentType != "" {
		mt, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			if ext, ok := extByMIME[mt]; ok {
				return ext
			}
		}
	}
	if u, err := url.Parse(rawURL); err == nil {
		if ext := strings.ToLower(path.Ext(u.Path)); ext != "" && len(ext) <= 5 {
			return ext
		}
	}
	return ".jpg"
}
