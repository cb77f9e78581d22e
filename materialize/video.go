package materialize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/kudosx/claude-skill-browser-use/acquire"
)

// Quality selects the yt-dlp format expression for video downloads.
type Quality string

const (
	QualityBest  Quality = "best"
	Quality1080p Quality = "1080p"
	Quality720p  Quality = "720p"
	Quality480p  Quality = "480p"
	Quality360p  Quality = "360p"
	QualityAudio Quality = "audio"
)

var formatByQuality = map[Quality]string{
	QualityBest:  "bestvideo+bestaudio/best",
	Quality1080p: "bestvideo[height<=1080]+bestaudio/best[height<=1080]",
	Quality720p:  "bestvideo[height<=720]+bestaudio/best[height<=720]",
	Quality480p:  "bestvideo[height<=480]+bestaudio/best[height<=480]",
	Quality360p:  "bestvideo[height<=360]+bestaudio/best[height<=360]",
	QualityAudio: "bestaudio/best",
}

// Valid reports whether q names a known quality.
func (q Quality) Valid() bool {
	_, ok := formatByQuality[q]
	return ok
}

// VideoTransfer downloads watch-page candidates through yt-dlp.
type VideoTransfer struct {
	Dir     string
	Quality Quality
	Logger  *slog.Logger
}

func NewVideoTransfer(dir string, quality Quality, logger *slog.Logger) *VideoTransfer {
	if quality == "" {
		quality = QualityBest
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VideoTransfer{Dir: dir, Quality: quality, Logger: logger}
}

func (t *VideoTransfer) Transfer(ctx context.Context, c acquire.Candidate) (string, int64, error) {
	if err := os.MkdirAll(t.Dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("materialize: mkdir %s: %w", t.Dir, err)
	}
	format, ok := formatByQuality[t.Quality]
	if !ok {
		return "", 0, fmt.Errorf("materialize: unknown quality %q", t.Quality)
	}

	// yt-dlp downloads into a private staging directory; the final name is
	// ours (Unicode titles survive, collisions get a suffix).
	stage, err := os.MkdirTemp(t.Dir, ".stage-")
	if err != nil {
		return "", 0, fmt.Errorf("materialize: staging dir: %w", err)
	}
	defer os.RemoveAll(stage)

	dl := ytdlp.New().
		Format(format).
		Output(stage + "/%(title)s.%(ext)s")
	if t.Quality == QualityAudio {
		dl = dl.ExtractAudio().AudioFormat("mp3")
	} else {
		dl = dl.MergeOutputFormat("mp4")
	}

	dl.ProgressFunc(500*time.Millisecond, func(update ytdlp.ProgressUpdate) {
		t.Logger.Debug("materialize: video progress",
			"url", c.SourceURL,
			"downloaded", update.DownloadedBytes,
			"total", update.TotalBytes)
	})

	result, err := dl.Run(ctx, c.SourceURL)
	if err != nil {
		return "", 0, fmt.Errorf("materialize: yt-dlp %s: %w", c.SourceURL, err)
	}

	staged := t.resultPath(result)
	if staged == "" {
		staged = soleFile(stage)
	}
	if staged == "" {
		return "", 0, fmt.Errorf("materialize: yt-dlp %s: no output file reported", c.SourceURL)
	}

	return t.publish(staged, c)
}

// publish moves a staged download into the destination directory under a
// sanitized title-based name, never clobbering an existing file.
func (t *VideoTransfer) publish(staged string, c acquire.Candidate) (string, int64, error) {
	base := c.Meta.Title
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(staged), filepath.Ext(staged))
	}

	dest, err := reservePath(t.Dir, sanitizeBase(base), filepath.Ext(staged))
	if err != nil {
		return "", 0, err
	}
	if err := os.Rename(staged, dest); err != nil {
		return "", 0, fmt.Errorf("materialize: move %s: %w", staged, err)
	}

	var size int64
	if fi, err := os.Stat(dest); err == nil {
		size = fi.Size()
	}
	return dest, size, nil
}

// soleFile returns the single regular file in dir, or "" when the
// directory does not hold exactly one.
func soleFile(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var found string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if found != "" {
			return ""
		}
		found = filepath.Join(dir, e.Name())
	}
	return found
}

// resultPath pulls the downloaded file path out of yt-dlp's extracted info.
func (t *VideoTransfer) resultPath(result *ytdlp.Result) string {
	if result == nil {
		return ""
	}
	info, err := result.GetExtractedInfo()
	if err != nil || len(info) == 0 {
		return ""
	}
	if info[0].Filename != nil {
		return *info[0].Filename
	}
	return ""
}
