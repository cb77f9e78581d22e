package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kudosx/claude-skill-browser-use/apifetch"
)

// Config is the browseruse.yaml file. Every field has a working default;
// the file is optional.
type Config struct {
	Browser struct {
		Headless         bool     `yaml:"headless"`
		RemoteURL        string   `yaml:"remote_url"`
		NavigateTimeout  duration `yaml:"navigate_timeout"`
		ResourceBlocking []string `yaml:"resource_blocking"`
	} `yaml:"browser"`

	// ProfilesDir holds per-account Chrome profiles for authenticated
	// sessions.
	ProfilesDir string `yaml:"profiles_dir"`

	// ImageAPI configures the no-browser image search tier. Empty
	// url_template disables the tier.
	ImageAPI struct {
		URLTemplate string          `yaml:"url_template"`
		Fetch       apifetch.Config `yaml:",inline"`
	} `yaml:"image_api"`

	Output struct {
		ImagesDir string `yaml:"images_dir"`
		VideosDir string `yaml:"videos_dir"`
	} `yaml:"output"`

	Materialize struct {
		ImageWorkers int      `yaml:"image_workers"`
		VideoWorkers int      `yaml:"video_workers"`
		ItemTimeout  duration `yaml:"item_timeout"`
		// HostRate is max transfer starts per second per source host.
		HostRate float64 `yaml:"host_rate"`
	} `yaml:"materialize"`

	HistoryDB string `yaml:"history_db"`
}

// duration lets YAML carry values like "30s".
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = duration(parsed)
	return nil
}

// LoadConfig reads the YAML config at path and applies defaults. Empty
// path yields pure defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Browser.Headless = true

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	home, _ := os.UserHomeDir()
	if cfg.ProfilesDir == "" {
		cfg.ProfilesDir = filepath.Join(home, ".auth", "profiles")
	}
	if cfg.Output.ImagesDir == "" {
		cfg.Output.ImagesDir = filepath.Join(home, "Downloads", "images")
	}
	if cfg.Output.VideosDir == "" {
		cfg.Output.VideosDir = filepath.Join(home, "Downloads", "videos")
	}
	if cfg.HistoryDB == "" {
		cfg.HistoryDB = filepath.Join(home, ".browseruse", "history.db")
	}
	if cfg.Materialize.ItemTimeout <= 0 {
		cfg.Materialize.ItemTimeout = duration(10 * time.Minute)
	}
	return cfg, nil
}
