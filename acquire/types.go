package acquire

import (
	"fmt"
	"time"
)

// Capability selects which tier ladder an acquisition runs against.
type Capability int

const (
	CapabilityImage Capability = iota
	CapabilityVideo
)

func (c Capability) String() string {
	switch c {
	case CapabilityImage:
		return "image"
	case CapabilityVideo:
		return "video"
	default:
		return fmt.Sprintf("capability(%d)", int(c))
	}
}

// Metadata carries the optional per-candidate fields a tier was able to
// discover. A zero value means the tier did not report that field.
type Metadata struct {
	Title       string    `json:"title,omitempty"`
	Channel     string    `json:"channel,omitempty"`
	DurationSec int       `json:"duration_sec,omitempty"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	Uploaded    time.Time `json:"uploaded,omitzero"`
	Views       int64     `json:"views,omitempty"`
}

// Candidate is one discovered, not-yet-downloaded item. Candidates are
// value types and never mutated after a tier returns them; dedup across
// tiers is by NormalizeURL(SourceURL).
type Candidate struct {
	SourceURL string   `json:"source_url"`
	Tier      string   `json:"tier"`
	Meta      Metadata `json:"meta"`
}

// Constraints is the caller's filtering intent. Zero fields are open.
type Constraints struct {
	// Count is the number of accepted candidates wanted. Required, > 0.
	Count int `json:"count"`
	// MinDimension rejects images whose smaller side is below this (pixels).
	MinDimension int `json:"min_dimension,omitempty"`
	// MinDuration/MaxDuration bound video length in minutes. 0 = open.
	MinDuration int `json:"min_duration,omitempty"`
	MaxDuration int `json:"max_duration,omitempty"`
	// DateFrom/DateTo bound the upload date, inclusive.
	DateFrom time.Time `json:"date_from,omitzero"`
	DateTo   time.Time `json:"date_to,omitzero"`
}

// Validate checks structural invariants. It is the only error surface that
// reaches the caller before any tier runs.
func (c Constraints) Validate() error {
	if c.Count <= 0 {
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidConstraints, c.Count)
	}
	if c.MinDimension < 0 {
		return fmt.Errorf("%w: negative min_dimension", ErrInvalidConstraints)
	}
	if c.MinDuration < 0 || c.MaxDuration < 0 {
		return fmt.Errorf("%w: negative duration bound", ErrInvalidConstraints)
	}
	if c.MinDuration > 0 && c.MaxDuration > 0 && c.MinDuration > c.MaxDuration {
		return fmt.Errorf("%w: min_duration %d > max_duration %d",
			ErrInvalidConstraints, c.MinDuration, c.MaxDuration)
	}
	if !c.DateFrom.IsZero() && !c.DateTo.IsZero() && c.DateFrom.After(c.DateTo) {
		return fmt.Errorf("%w: date_from after date_to", ErrInvalidConstraints)
	}
	return nil
}

// Active reports whether any filter field is set. Active filters drive
// over-fetching, since some candidates will be rejected downstream.
func (c Constraints) Active() bool {
	return c.MinDimension > 0 || c.MinDuration > 0 || c.MaxDuration > 0 ||
		!c.DateFrom.IsZero() || !c.DateTo.IsZero()
}

// TierResult is the outcome of one tier invocation. Candidate order is the
// tier's relevance order.
type TierResult struct {
	Candidates []Candidate
	// Exhausted means the tier has no further results even if it returned
	// fewer than asked for.
	Exhausted bool
}

// Outcome is the result of materializing one accepted candidate. Exactly one
// of LocalPath and Failure is set.
type Outcome struct {
	Candidate Candidate `json:"candidate"`
	LocalPath string    `json:"local_path,omitempty"`
	Failure   string    `json:"failure,omitempty"`
	ByteSize  int64     `json:"byte_size,omitempty"`
}

// OK reports whether the transfer succeeded.
func (o Outcome) OK() bool { return o.Failure == "" }

// Report is the summary returned to the caller for one acquisition.
// Immutable after return.
type Report struct {
	ID           string            `json:"id"`
	Capability   string            `json:"capability"`
	Query        string            `json:"query"`
	Requested    int               `json:"requested"`
	Accepted     int               `json:"accepted"`
	Materialized int               `json:"materialized"`
	Outcomes     []Outcome         `json:"outcomes,omitempty"`
	TiersUsed    []string          `json:"tiers_used"`
	// TierErrors maps a tier name to the soft failure it reported, for
	// diagnosing partial results. Failed tiers also appear in TiersUsed.
	TierErrors map[string]string `json:"tier_errors,omitempty"`
	Elapsed    time.Duration     `json:"elapsed_ns"`
	CreatedAt  time.Time         `json:"created_at"`
}
