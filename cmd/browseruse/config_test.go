package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Browser.Headless {
		t.Error("default must be headless")
	}
	if cfg.ProfilesDir == "" || cfg.Output.ImagesDir == "" || cfg.HistoryDB == "" {
		t.Errorf("missing directory defaults: %+v", cfg)
	}
	if time.Duration(cfg.Materialize.ItemTimeout) != 10*time.Minute {
		t.Errorf("item timeout = %v", time.Duration(cfg.Materialize.ItemTimeout))
	}
}

func TestLoadConfig_File(t *testing.T) {
	content := `
browser:
  headless: false
  navigate_timeout: 45s
  resource_blocking: [images, fonts]
image_api:
  url_template: "https://searx.local/search?q={query}&format=json"
  result_path: results
  fields:
    url: img_src
output:
  images_dir: /data/images
materialize:
  image_workers: 4
  item_timeout: 2m
  host_rate: 2.5
history_db: /data/history.db
`
	path := filepath.Join(t.TempDir(), "browseruse.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Browser.Headless {
		t.Error("headless not overridden")
	}
	if time.Duration(cfg.Browser.NavigateTimeout) != 45*time.Second {
		t.Errorf("navigate timeout = %v", time.Duration(cfg.Browser.NavigateTimeout))
	}
	if len(cfg.Browser.ResourceBlocking) != 2 {
		t.Errorf("resource blocking = %v", cfg.Browser.ResourceBlocking)
	}
	if cfg.ImageAPI.URLTemplate == "" || cfg.ImageAPI.Fetch.ResultPath != "results" {
		t.Errorf("image api = %+v", cfg.ImageAPI)
	}
	if cfg.ImageAPI.Fetch.Fields["url"] != "img_src" {
		t.Errorf("fields = %v", cfg.ImageAPI.Fetch.Fields)
	}
	if cfg.Output.ImagesDir != "/data/images" {
		t.Errorf("images dir = %q", cfg.Output.ImagesDir)
	}
	if cfg.Output.VideosDir == "" {
		t.Error("videos dir default not applied")
	}
	if cfg.Materialize.HostRate != 2.5 {
		t.Errorf("host rate = %v", cfg.Materialize.HostRate)
	}
	if cfg.HistoryDB != "/data/history.db" {
		t.Errorf("history db = %q", cfg.HistoryDB)
	}
}

func TestLoadConfig_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("browser:\n  navigate_timeout: soon\n"), 0o644)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("want error for unparseable duration")
	}
}
