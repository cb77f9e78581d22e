// Package acquire implements the tiered-fallback content acquisition
// engine: an ordered ladder of fetch tiers (cheap no-browser strategies
// first, full browser automation last), a constraint filter, and a bounded
// parallel materializer, composed by an orchestrator that owns the
// over-fetch and fallback policy.
package acquire

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Materializer performs the byte transfers for accepted candidates.
// Implementations return exactly one Outcome per input candidate; outcome
// order need not match input order.
type Materializer interface {
	Materialize(ctx context.Context, candidates []Candidate) []Outcome
}

// Recorder persists finished reports. Implementations must never fail an
// acquisition: store errors are theirs to log and swallow.
type Recorder interface {
	Record(ctx context.Context, report *Report)
}

// Config assembles an Orchestrator. Tiers are listed in strictly increasing
// cost order; a later tier runs only while the accepted count is short of
// the target.
type Config struct {
	ImageTiers []Tier
	VideoTiers []Tier

	// Images downloads image candidates; Videos downloads video candidates.
	Images Materializer
	Videos Materializer

	// Filter applies caller constraints. Default: filter with no prober.
	Filter *Filter

	// History, when set, records every report.
	History Recorder

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Filter == nil {
		c.Filter = NewFilter(nil, c.Logger)
	}
}

// Request describes one acquisition.
type Request struct {
	Query       string
	Capability  Capability
	Constraints Constraints
}

// Orchestrator composes ladder, filter, and materializer into the
// end-to-end search-and-download operation. It holds no per-request state;
// a retry is simply a fresh Acquire call.
type Orchestrator struct {
	cfg Config
}

// New creates an Orchestrator.
func New(cfg Config) *Orchestrator {
	cfg.defaults()
	return &Orchestrator{cfg: cfg}
}

// Acquire runs one search-and-download request and returns its report.
// Tier failures and per-item transfer failures are absorbed into the
// report; the only synchronous error is an invalid constraint
// specification. All tiers failing yields a zero-count report, not an
// error, so callers can inspect and decide.
func (o *Orchestrator) Acquire(ctx context.Context, req Request) (*Report, error) {
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}

	log := o.cfg.Logger
	start := time.Now()

	var tiers []Tier
	var sink Materializer
	switch req.Capability {
	case CapabilityVideo:
		tiers, sink = o.cfg.VideoTiers, o.cfg.Videos
	default:
		tiers, sink = o.cfg.ImageTiers, o.cfg.Images
	}

	log.Info("acquire: start",
		"capability", req.Capability.String(), "query", req.Query,
		"count", req.Constraints.Count, "filters", req.Constraints.Active())

	ladder := NewLadder(tiers, o.cfg.Filter, log)
	accepted, used, tierErrs := ladder.Run(ctx, req.Query, req.Constraints)

	// Materialization is attempted on at most Count items.
	if len(accepted) > req.Constraints.Count {
		accepted = accepted[:req.Constraints.Count]
	}

	report := &Report{
		ID:         uuid.NewString(),
		Capability: req.Capability.String(),
		Query:      req.Query,
		Requested:  req.Constraints.Count,
		Accepted:   len(accepted),
		TiersUsed:  used,
		TierErrors: tierErrs,
		CreatedAt:  start,
	}

	if len(accepted) > 0 && sink != nil {
		report.Outcomes = sink.Materialize(ctx, accepted)
		for _, out := range report.Outcomes {
			if out.OK() {
				report.Materialized++
			}
		}
	}

	report.Elapsed = time.Since(start)

	log.Info("acquire: done",
		"id", report.ID, "accepted", report.Accepted,
		"materialized", report.Materialized, "tiers", used,
		"elapsed", report.Elapsed)

	if o.cfg.History != nil {
		o.cfg.History.Record(ctx, report)
	}

	return report, nil
}
