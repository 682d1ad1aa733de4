package enrich

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Collector fans fetches out over the distinct join keys of a run. For every
// key it asks each source exactly once; per-key failures surface as fallback
// results and never abort the other keys. Fetches run on a bounded worker
// pool, paced by a shared rate limiter so the total request rate stays under
// what the external APIs allow.
type Collector struct {
	Sources []Source

	// Workers bounds concurrent keys in flight; 4 when zero.
	Workers int

	// Limiter gates the start of each key's fetch pair. Nil means no pacing.
	Limiter *rate.Limiter
}

// Collect fetches records for every distinct key and returns the results
// grouped by source name. Result order within a source is unspecified; the
// downstream join is key-based, not position-based. The only error returned
// is context cancellation.
func (c *Collector) Collect(ctx context.Context, keys []string) (map[string][]Result, error) {
	distinct := distinctKeys(keys)

	out := make(map[string][]Result, len(c.Sources))
	var mu sync.Mutex

	workers := c.Workers
	if workers <= 0 {
		workers = 4
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, key := range distinct {
		g.Go(func() error {
			if c.Limiter != nil {
				if err := c.Limiter.Wait(ctx); err != nil {
					return err
				}
			}
			for _, src := range c.Sources {
				res := src.Fetch(ctx, key)
				mu.Lock()
				out[src.Name()] = append(out[src.Name()], res)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// distinctKeys deduplicates keys, dropping empties, and sorts the result so
// runs are deterministic for logging and tests.
func distinctKeys(keys []string) []string {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		set[k] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
