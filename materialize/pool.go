// Package materialize downloads accepted candidates to local files through
// a bounded worker pool. Transfers are independent: one failure never
// aborts the batch, and every input candidate yields exactly one outcome.
package materialize

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/kudosx/claude-skill-browser-use/acquire"
)

// Defaults chosen for the payload profile: images are small and parallel
// well; video downloads are long-lived and saturate bandwidth quickly.
const (
	DefaultImageWorkers = 10
	DefaultVideoWorkers = 3
)

// Transfer downloads one candidate's payload, returning the local path and
// size on disk.
type Transfer interface {
	Transfer(ctx context.Context, c acquire.Candidate) (localPath string, byteSize int64, err error)
}

// PoolConfig tunes one pool instance.
type PoolConfig struct {
	// Workers bounds concurrent transfers. Required, > 0.
	Workers int
	// ItemTimeout bounds each individual transfer. 0 disables.
	ItemTimeout time.Duration
	// HostRate limits request starts per source host. 0 disables.
	HostRate rate.Limit
	Logger   *slog.Logger
}

func (c *PoolConfig) defaults() {
	if c.Workers <= 0 {
		c.Workers = DefaultImageWorkers
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Pool fans candidates out over a fixed number of workers.
type Pool struct {
	cfg      PoolConfig
	transfer Transfer

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewPool wires a pool around a transfer backend.
func NewPool(transfer Transfer, cfg PoolConfig) *Pool {
	cfg.defaults()
	return &Pool{
		cfg:      cfg,
		transfer: transfer,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Materialize downloads the batch. The returned slice is index-aligned
// with the input, one outcome per candidate, success or failure.
func (p *Pool) Materialize(ctx context.Context, candidates []acquire.Candidate) []acquire.Outcome {
	outcomes := make([]acquire.Outcome, len(candidates))
	if len(candidates) == 0 {
		return outcomes
	}

	type job struct {
		idx int
		c   acquire.Candidate
	}
	jobs := make(chan job)

	var wg sync.WaitGroup
	for w := 0; w < p.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				outcomes[j.idx] = p.run(ctx, j.c)
			}
		}()
	}

	for i, c := range candidates {
		jobs <- job{idx: i, c: c}
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

// run executes a single transfer with the per-item timeout and host rate
// limit applied.
func (p *Pool) run(ctx context.Context, c acquire.Candidate) acquire.Outcome {
	out := acquire.Outcome{Candidate: c}

	if err := p.waitHost(ctx, c.SourceURL); err != nil {
		out.Failure = err.Error()
		return out
	}

	runCtx := ctx
	if p.cfg.ItemTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.cfg.ItemTimeout)
		defer cancel()
	}

	path, size, err := p.transfer.Transfer(runCtx, c)
	if err != nil {
		p.cfg.Logger.Warn("materialize: transfer failed",
			"url", c.SourceURL, "tier", c.Tier, "error", err)
		out.Failure = err.Error()
		return out
	}

	out.LocalPath = path
	out.ByteSize = size
	return out
}

// waitHost blocks on the source host's rate limiter. data: URIs and
// unparseable URLs skip limiting.
func (p *Pool) waitHost(ctx context.Context, rawURL string) error {
	if p.cfg.HostRate <= 0 {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil
	}

	p.mu.Lock()
	lim, ok := p.limiters[u.Host]
	if !ok {
		lim = rate.NewLimiter(p.cfg.HostRate, 1)
		p.limiters[u.Host] = lim
	}
	p.mu.Unlock()

	return lim.Wait(ctx)
}
