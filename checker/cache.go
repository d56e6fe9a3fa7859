package checker

import (
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/singleflight"
)

// ResultCache memoizes validation outcomes per URL for the lifetime of one
// run. The singleflight group guarantees the external probes run at most
// once per URL even when aliased channels are validated concurrently; late
// callers wait for the first caller's outcome instead of re-probing.
type ResultCache struct {
	outcomes *xsync.MapOf[string, Outcome]
	inflight singleflight.Group
}

func NewResultCache() *ResultCache {
	return &ResultCache{outcomes: xsync.NewMapOf[string, Outcome]()}
}

// Do returns the installed outcome for url, or runs fn and installs its
// result. The check-then-insert sequence is serialized per URL.
func (c *ResultCache) Do(url string, fn func() Outcome) Outcome {
	if outcome, ok := c.outcomes.Load(url); ok {
		return outcome
	}

	v, _, _ := c.inflight.Do(url, func() (any, error) {
		if outcome, ok := c.outcomes.Load(url); ok {
			return outcome, nil
		}
		outcome := fn()
		c.outcomes.Store(url, outcome)
		return outcome, nil
	})
	return v.(Outcome)
}

// Lookup reports an installed outcome without triggering validation.
func (c *ResultCache) Lookup(url string) (Outcome, bool) {
	return c.outcomes.Load(url)
}

// Len returns the number of distinct URLs validated so far.
func (c *ResultCache) Len() int {
	return c.outcomes.Size()
}

// Reset clears all outcomes for the next batch item.
func (c *ResultCache) Reset() {
	c.outcomes.Clear()
}
