package acquire

import (
	"context"
	"log/slog"
)

// OverfetchFactor multiplies the requested count when any filter is active,
// so that downstream rejection still leaves enough accepted candidates.
const OverfetchFactor = 5

// Tier is one acquisition strategy. Implementations are pure producers:
// they discover candidates but never download payload bytes, and they own
// and release whatever connection, process, or browser page they open, on
// every exit path.
//
// A tier signals a soft failure (missing binary, timeout, blocked page) by
// returning an error; the ladder logs it and moves to the next tier. A nil
// error with zero candidates means the query genuinely has no matches there.
type Tier interface {
	Name() string
	Fetch(ctx context.Context, query string, countHint int, filters Constraints) (*TierResult, error)
}

// Ladder runs an ordered list of tiers, cheapest first, merging and
// filtering candidates until the target count is reached or the ladder is
// exhausted.
type Ladder struct {
	tiers  []Tier
	filter *Filter
	logger *slog.Logger
}

// NewLadder creates a Ladder over the given tiers, in attempt order.
func NewLadder(tiers []Tier, filter *Filter, logger *slog.Logger) *Ladder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ladder{tiers: tiers, filter: filter, logger: logger}
}

// Run executes the fallback protocol for one query. It returns the accepted
// candidates (possibly fewer than filters.Count; partial fulfillment is not
// an error at this layer), the names of the tiers actually invoked, and any
// soft errors tiers reported along the way.
func (l *Ladder) Run(ctx context.Context, query string, filters Constraints) (accepted []Candidate, used []string, tierErrs map[string]string) {
	countHint := filters.Count
	if filters.Active() {
		countHint = filters.Count * OverfetchFactor
	}

	seen := make(map[string]bool)
	tierErrs = make(map[string]string)

	for _, tier := range l.tiers {
		if len(accepted) >= filters.Count {
			break
		}
		if ctx.Err() != nil {
			break
		}

		used = append(used, tier.Name())
		res, err := tier.Fetch(ctx, query, countHint, filters)
		if err != nil {
			// Soft failure: record, continue down the ladder.
			l.logger.Warn("ladder: tier failed", "tier", tier.Name(), "error", err)
			tierErrs[tier.Name()] = err.Error()
			continue
		}

		fresh := 0
		for _, c := range res.Candidates {
			key, err := NormalizeURL(c.SourceURL)
			if err != nil {
				l.logger.Debug("ladder: dropping malformed candidate",
					"tier", tier.Name(), "url", c.SourceURL, "error", err)
				continue
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			fresh++

			if !l.filter.Accept(ctx, c, filters) {
				continue
			}
			accepted = append(accepted, c)
			if len(accepted) >= filters.Count {
				break
			}
		}

		l.logger.Info("ladder: tier done",
			"tier", tier.Name(), "returned", len(res.Candidates),
			"new", fresh, "accepted_total", len(accepted),
			"target", filters.Count, "exhausted", res.Exhausted)
	}

	return accepted, used, tierErrs
}
