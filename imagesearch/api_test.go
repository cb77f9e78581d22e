package imagesearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kudosx/claude-skill-browser-use/acquire"
	"github.com/kudosx/claude-skill-browser-use/apifetch"
)

func acquireConstraints() acquire.Constraints {
	return acquire.Constraints{Count: 5}
}

func TestAPITier_Fetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "Red panda", "img_src": "https://img.test/panda.jpg", "img_width": 1600.0, "img_height": 1200.0},
				{"title": "No url, skipped"},
				{"title": "Another", "img_src": "https://img.test/panda2.jpg"},
			},
		})
	}))
	defer srv.Close()

	tier := NewAPITier(srv.URL+"/search?q={query}&count={count}", apifetch.Config{
		ResultPath: "results",
		Fields: map[string]string{
			"title":  "title",
			"url":    "img_src",
			"width":  "img_width",
			"height": "img_height",
		},
	})

	res, err := tier.Fetch(context.Background(), "red pandas", 10, acquireConstraints())
	if err != nil {
		t.Fatal(err)
	}
	if gotQuery != "red pandas" {
		t.Errorf("server saw query %q", gotQuery)
	}
	if len(res.Candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(res.Candidates))
	}

	first := res.Candidates[0]
	if first.SourceURL != "https://img.test/panda.jpg" {
		t.Errorf("url = %q", first.SourceURL)
	}
	if first.Meta.Width != 1600 || first.Meta.Height != 1200 {
		t.Errorf("dims = %dx%d", first.Meta.Width, first.Meta.Height)
	}
	if first.Tier != "image-api" {
		t.Errorf("tier = %q", first.Tier)
	}
}

func TestAPITier_NoEndpointConfigured(t *testing.T) {
	tier := NewAPITier("", apifetch.Config{})
	if _, err := tier.Fetch(context.Background(), "q", 5, acquireConstraints()); err == nil {
		t.Fatal("want unavailable error for empty endpoint")
	}
}

func TestAPITier_CountCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var results []map[string]any
		for i := 0; i < 30; i++ {
			results = append(results, map[string]any{"url": "https://img.test/" + string(rune('a'+i)) + ".jpg"})
		}
		json.NewEncoder(w).Encode(map[string]any{"results": results})
	}))
	defer srv.Close()

	tier := NewAPITier(srv.URL+"/s?q={query}", apifetch.Config{ResultPath: "results"})
	res, err := tier.Fetch(context.Background(), "q", 7, acquireConstraints())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Candidates) != 7 {
		t.Errorf("candidates = %d, want the count hint cap of 7", len(res.Candidates))
	}
}
