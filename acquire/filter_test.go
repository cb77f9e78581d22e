package acquire

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeProber struct {
	w, h int
	err  error
	hits int
}

func (p *fakeProber) Probe(ctx context.Context, rawURL string) (int, int, error) {
	p.hits++
	return p.w, p.h, p.err
}

func TestFilter_NoConstraints_PassesEverything(t *testing.T) {
	f := NewFilter(nil, nil)
	c := Candidate{SourceURL: "https://example.com/a.jpg"}

	if !f.Accept(context.Background(), c, Constraints{Count: 1}) {
		t.Error("candidate with no metadata should pass when no filters are active")
	}
}

func TestFilter_Dimension(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		min    int
		accept bool
	}{
		{"both above", 1920, 1080, 800, true},
		{"smaller side below", 1920, 600, 800, false},
		{"exactly at bound", 800, 800, 800, true},
		{"no constraint ignores size", 10, 10, 0, true},
	}

	f := NewFilter(nil, nil)
	for _, tt := range tests {
		c := Candidate{
			SourceURL: "https://example.com/a.jpg",
			Meta:      Metadata{Width: tt.w, Height: tt.h},
		}
		got := f.Accept(context.Background(), c, Constraints{Count: 1, MinDimension: tt.min})
		if got != tt.accept {
			t.Errorf("%s: accept = %v, want %v", tt.name, got, tt.accept)
		}
	}
}

func TestFilter_Dimension_ProbesOnlyWhenNeeded(t *testing.T) {
	prober := &fakeProber{w: 1200, h: 900}
	f := NewFilter(prober, nil)
	c := Candidate{SourceURL: "https://example.com/a.jpg"}

	// No dimension constraint: prober must not be consulted.
	f.Accept(context.Background(), c, Constraints{Count: 1})
	if prober.hits != 0 {
		t.Fatalf("prober consulted without an active dimension constraint")
	}

	// Constraint active, metadata missing: probe resolves it.
	if !f.Accept(context.Background(), c, Constraints{Count: 1, MinDimension: 800}) {
		t.Error("probed 1200x900 should pass min 800")
	}
	if prober.hits != 1 {
		t.Errorf("prober hits = %d, want 1", prober.hits)
	}

	// Metadata present: no probe.
	withMeta := Candidate{SourceURL: "https://example.com/b.jpg", Meta: Metadata{Width: 900, Height: 900}}
	f.Accept(context.Background(), withMeta, Constraints{Count: 1, MinDimension: 800})
	if prober.hits != 1 {
		t.Errorf("prober consulted despite known dimensions")
	}
}

func TestFilter_Dimension_ProbeFailureRejects(t *testing.T) {
	f := NewFilter(&fakeProber{err: errors.New("boom")}, nil)
	c := Candidate{SourceURL: "https://example.com/a.jpg"}

	if f.Accept(context.Background(), c, Constraints{Count: 1, MinDimension: 800}) {
		t.Error("unverifiable dimensions must reject under an active constraint")
	}
}

func TestFilter_Duration(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int
		min, max int
		accept   bool
	}{
		{"inside range", 600, 5, 20, true},
		{"below min", 120, 5, 0, false},
		{"above max", 1800, 0, 20, false},
		{"min only", 600, 5, 0, true},
		{"missing duration rejects", 0, 5, 20, false},
		{"no bounds pass missing", 0, 0, 0, true},
		{"fractional minutes compare", 270, 4, 5, true}, // 4.5 min
	}

	f := NewFilter(nil, nil)
	for _, tt := range tests {
		c := Candidate{
			SourceURL: "https://example.com/v",
			Meta:      Metadata{DurationSec: tt.seconds},
		}
		got := f.Accept(context.Background(), c, Constraints{
			Count: 1, MinDuration: tt.min, MaxDuration: tt.max,
		})
		if got != tt.accept {
			t.Errorf("%s: accept = %v, want %v", tt.name, got, tt.accept)
		}
	}
}

func TestFilter_Date(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatal(err)
		}
		return d
	}

	tests := []struct {
		name     string
		uploaded time.Time
		from, to time.Time
		accept   bool
	}{
		{"inside range", day("2025-06-15"), day("2025-06-01"), day("2025-06-30"), true},
		{"before from", day("2025-05-01"), day("2025-06-01"), time.Time{}, false},
		{"to day is inclusive", day("2025-06-30").Add(18 * time.Hour), time.Time{}, day("2025-06-30"), true},
		{"after to", day("2025-07-01"), time.Time{}, day("2025-06-30"), false},
		{"missing date rejects", time.Time{}, day("2025-06-01"), time.Time{}, false},
		{"no bounds pass missing", time.Time{}, time.Time{}, time.Time{}, true},
	}

	f := NewFilter(nil, nil)
	for _, tt := range tests {
		c := Candidate{
			SourceURL: "https://example.com/v",
			Meta:      Metadata{Uploaded: tt.uploaded},
		}
		got := f.Accept(context.Background(), c, Constraints{
			Count: 1, DateFrom: tt.from, DateTo: tt.to,
		})
		if got != tt.accept {
			t.Errorf("%s: accept = %v, want %v", tt.name, got, tt.accept)
		}
	}
}

func TestConstraints_Validate(t *testing.T) {
	tests := []struct {
		name string
		c    Constraints
		ok   bool
	}{
		{"valid", Constraints{Count: 5}, true},
		{"zero count", Constraints{}, false},
		{"negative count", Constraints{Count: -1}, false},
		{"negative dimension", Constraints{Count: 1, MinDimension: -5}, false},
		{"min over max duration", Constraints{Count: 1, MinDuration: 30, MaxDuration: 10}, false},
		{"date from after to", Constraints{
			Count:    1,
			DateFrom: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			DateTo:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		}, false},
	}

	for _, tt := range tests {
		err := tt.c.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok {
			if !errors.Is(err, ErrInvalidConstraints) {
				t.Errorf("%s: want ErrInvalidConstraints, got %v", tt.name, err)
			}
		}
	}
}

func TestConstraints_Active(t *testing.T) {
	if (Constraints{Count: 3}).Active() {
		t.Error("count alone is not a filter")
	}
	if !(Constraints{Count: 3, MinDimension: 100}).Active() {
		t.Error("min dimension should activate filtering")
	}
	if !(Constraints{Count: 3, MaxDuration: 20}).Active() {
		t.Error("max duration should activate filtering")
	}
}
