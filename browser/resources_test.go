package browser

import "testing"

func TestWithoutResourceBlocking(t *testing.T) {
	var tc tabConfig
	WithoutResourceBlocking()(&tc)
	if !tc.noBlocking {
		t.Error("option did not disable per-tab blocking")
	}
}

func TestShouldBlock(t *testing.T) {
	blockSet := map[string]bool{"images": true, "fonts": true}

	tests := []struct {
		resType string
		want    bool
	}{
		{"Image", true},
		{"Font", true},
		{"Media", false},
		{"Stylesheet", false},
		{"Document", false},
		{"XHR", false},
	}

	for _, tt := range tests {
		if got := shouldBlock(blockSet, tt.resType); got != tt.want {
			t.Errorf("shouldBlock(%q) = %v, want %v", tt.resType, got, tt.want)
		}
	}
}
