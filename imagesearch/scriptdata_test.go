package imagesearch

import (
	"strconv"
	"strings"
	"testing"
)

func TestSearchURL(t *testing.T) {
	u := searchURL("red pandas", SizeLarge)
	if !strings.Contains(u, "q=red+pandas") {
		t.Errorf("query missing: %q", u)
	}
	if !strings.Contains(u, "tbm=isch") {
		t.Errorf("image mode missing: %q", u)
	}
	if !strings.Contains(u, "tbs=isz%3Al") {
		t.Errorf("size param missing: %q", u)
	}

	if strings.Contains(searchURL("q", SizeAny), "tbs=") {
		t.Error("size any must not emit tbs")
	}
}

func TestScriptImageRegex(t *testing.T) {
	html := `...["https://cdn.example.org/full/cat.jpg",1080,1920]...` +
		`["https://encrypted-tbn0.gstatic.com/images?q=tbn:xyz",220,330]...` +
		`["https://other.example.net/img=big.png",900,1600]...`

	matches := scriptImageRe.FindAllStringSubmatch(html, -1)
	if len(matches) != 3 {
		t.Fatalf("matches = %d, want 3", len(matches))
	}

	if matches[0][1] != "https://cdn.example.org/full/cat.jpg" {
		t.Errorf("url = %q", matches[0][1])
	}
	h, _ := strconv.Atoi(matches[0][2])
	w, _ := strconv.Atoi(matches[0][3])
	if h != 1080 || w != 1920 {
		t.Errorf("dims = %dx%d, want height 1080 width 1920", h, w)
	}
}

func TestDecodeJSString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://a.test/plain.jpg", "https://a.test/plain.jpg"},
		{`https://a.test/img=big`, "https://a.test/img=big"},
		{`https://a.test/a&b=1`, "https://a.test/a&b=1"},
		{`https://a.test/bad\escape`, `https://a.test/bad\escape`},
	}
	for _, tt := range tests {
		if got := decodeJSString(tt.in); got != tt.want {
			t.Errorf("decodeJSString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUsableSource(t *testing.T) {
	big := "data:image/png;base64," + strings.Repeat("A", 2000)
	tiny := "data:image/gif;base64,R0lGOD"

	tests := []struct {
		src  string
		want bool
	}{
		{"https://cdn.example.org/full.jpg", true},
		{"http://cdn.example.org/full.jpg", true},
		{"https://encrypted-tbn0.gstatic.com/images?q=tbn:x", false},
		{big, true},
		{tiny, false},
		{"data:text/plain;base64,aGk=", false},
		{"blob:https://x.test/uuid", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := usableSource(tt.src); got != tt.want {
			t.Errorf("usableSource(%.40q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}
