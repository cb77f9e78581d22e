package videosearch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/kudosx/claude-skill-browser-use/acquire"
)

// maxSearchResults caps what a single yt-dlp search invocation asks for.
const maxSearchResults = 50

// YtdlpTier searches via the yt-dlp binary's ytsearch pseudo-URL. Cheapest
// video tier: no browser, one subprocess, flat playlist metadata only.
type YtdlpTier struct {
	// Binary overrides the executable name, default "yt-dlp".
	Binary  string
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewYtdlpTier(logger *slog.Logger) *YtdlpTier {
	if logger == nil {
		logger = slog.Default()
	}
	return &YtdlpTier{Binary: "yt-dlp", Timeout: 60 * time.Second, Logger: logger}
}

func (t *YtdlpTier) Name() string { return "video-ytdlp" }

// flatEntry is one --dump-json line in --flat-playlist mode. Most fields
// are optional there; duration in particular is often null.
type flatEntry struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Duration  *float64 `json:"duration"`
	Channel   string   `json:"channel"`
	Uploader  string   `json:"uploader"`
	ViewCount *int64   `json:"view_count"`
}

func (t *YtdlpTier) Fetch(ctx context.Context, query string, countHint int, _ acquire.Constraints) (*acquire.TierResult, error) {
	bin := t.Binary
	if bin == "" {
		bin = "yt-dlp"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("videosearch: %w: %s not on PATH", acquire.ErrTierUnavailable, bin)
	}

	n := countHint
	if n > maxSearchResults {
		n = maxSearchResults
	}

	runCtx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, path,
		fmt.Sprintf("ytsearch%d:%s", n, query),
		"--dump-json", "--flat-playlist", "--skip-download", "--no-warnings")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("videosearch: yt-dlp search: %w (stderr: %s)",
			err, firstLine(stderr.String()))
	}

	out := &acquire.TierResult{}
	sc := bufio.NewScanner(&stdout)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		var e flatEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Logger.Debug("videosearch: skipping malformed json line", "error", err)
			continue
		}
		if e.ID == "" {
			continue
		}
		src := e.URL
		if src == "" {
			src = watchURL(e.ID)
		}
		meta := acquire.Metadata{Title: e.Title, Channel: e.Channel}
		if meta.Channel == "" {
			meta.Channel = e.Uploader
		}
		if e.Duration != nil {
			meta.DurationSec = int(*e.Duration)
		}
		if e.ViewCount != nil {
			meta.Views = *e.ViewCount
		}
		out.Candidates = append(out.Candidates, acquire.Candidate{
			SourceURL: src,
			Tier:      t.Name(),
			Meta:      meta,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("videosearch: yt-dlp output: %w", err)
	}

	out.Exhausted = len(out.Candidates) < n
	t.Logger.Info("videosearch: yt-dlp tier done",
		"query", query, "found", len(out.Candidates), "hint", countHint)
	return out, nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
