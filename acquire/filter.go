package acquire

import (
	"context"
	"log/slog"
)

// DimensionProber resolves the pixel dimensions of an image candidate whose
// tier did not report them. Probing costs a network round-trip, so the
// filter only invokes it when a dimension constraint is active.
type DimensionProber interface {
	Probe(ctx context.Context, rawURL string) (width, height int, err error)
}

// Filter applies a Constraints specification to candidates, independent of
// which tier produced them. All rules are AND-combined; an absent constraint
// always passes. A candidate that lacks the metadata needed to verify an
// active constraint is rejected: unverifiable means excluded.
type Filter struct {
	// Prober is consulted for image candidates missing width/height when
	// MinDimension is set. Nil disables probing (such candidates reject).
	Prober DimensionProber

	Logger *slog.Logger
}

// NewFilter creates a Filter. prober may be nil.
func NewFilter(prober DimensionProber, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filter{Prober: prober, Logger: logger}
}

// Accept reports whether the candidate satisfies every active constraint.
func (f *Filter) Accept(ctx context.Context, c Candidate, filters Constraints) bool {
	if !f.acceptDimension(ctx, c, filters) {
		return false
	}
	if !f.acceptDuration(c, filters) {
		return false
	}
	return f.acceptDate(c, filters)
}

func (f *Filter) acceptDimension(ctx context.Context, c Candidate, filters Constraints) bool {
	if filters.MinDimension <= 0 {
		return true
	}

	w, h := c.Meta.Width, c.Meta.Height
	if (w == 0 || h == 0) && f.Prober != nil {
		pw, ph, err := f.Prober.Probe(ctx, c.SourceURL)
		if err != nil {
			f.Logger.Debug("filter: dimension probe failed", "url", c.SourceURL, "error", err)
			return false
		}
		w, h = pw, ph
	}
	if w == 0 || h == 0 {
		return false
	}

	return min(w, h) >= filters.MinDimension
}

func (f *Filter) acceptDuration(c Candidate, filters Constraints) bool {
	if filters.MinDuration <= 0 && filters.MaxDuration <= 0 {
		return true
	}
	if c.Meta.DurationSec <= 0 {
		return false
	}

	minutes := float64(c.Meta.DurationSec) / 60
	if filters.MinDuration > 0 && minutes < float64(filters.MinDuration) {
		return false
	}
	if filters.MaxDuration > 0 && minutes > float64(filters.MaxDuration) {
		return false
	}
	return true
}

func (f *Filter) acceptDate(c Candidate, filters Constraints) bool {
	if filters.DateFrom.IsZero() && filters.DateTo.IsZero() {
		return true
	}
	if c.Meta.Uploaded.IsZero() {
		return false
	}

	if !filters.DateFrom.IsZero() && c.Meta.Uploaded.Before(filters.DateFrom) {
		return false
	}
	if !filters.DateTo.IsZero() {
		// DateTo is a calendar date: anything on that day is in range.
		end := filters.DateTo.AddDate(0, 0, 1)
		if !c.Meta.Uploaded.Before(end) {
			return false
		}
	}
	return true
}
