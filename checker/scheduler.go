package checker

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/ratelimit"

	"iptv-checker/config"
	"iptv-checker/logger"
	"iptv-checker/playlist"
)

// Scheduler fans channel validations out over a bounded goroutine pool and
// yields results in completion order.
type Scheduler struct {
	checker StreamChecker
	workers int
	// collectBudget is the hard per-task ceiling at the collection layer.
	// A task that blows through it is reported as skipped; the subprocess
	// layer enforces its own, shorter timeout underneath.
	collectBudget time.Duration
	limiter       ratelimit.Limiter
}

func NewScheduler(checker StreamChecker, cfg *config.Config) *Scheduler {
	s := &Scheduler{
		checker:       checker,
		workers:       cfg.Workers,
		collectBudget: cfg.CollectBudget(),
	}
	if cfg.ProbeRate > 0 {
		s.limiter = ratelimit.New(cfg.ProbeRate)
	}
	return s
}

// Run dispatches one validation task per channel, at most workers at a
// time, and emits results as tasks settle. Cancelling ctx stops dispatch of
// further tasks; in-flight subprocesses die with their contexts.
func (s *Scheduler) Run(ctx context.Context, channels []*playlist.Channel) <-chan Result {
	results := make(chan Result)

	go func() {
		defer close(results)

		pool, err := ants.NewPool(s.workers)
		if err != nil {
			logger.Default.Errorf("Error creating worker pool: %v", err)
			return
		}
		defer pool.Release()

		var wg sync.WaitGroup
		for _, ch := range channels {
			if ctx.Err() != nil {
				logger.Default.Warn("Interrupted, no further channels will be dispatched")
				break
			}
			if s.limiter != nil {
				s.limiter.Take()
			}

			headers := playlist.ExtractHeaders(ch.Extinf, ch.Options)

			wg.Add(1)
			if err := pool.Submit(func() {
				defer wg.Done()
				s.runTask(ctx, ch, headers, results)
			}); err != nil {
				wg.Done()
				logger.Default.Errorf("Error submitting task for %s: %v", ch.Name(), err)
			}
		}
		wg.Wait()
	}()

	return results
}

// runTask waits for one validation to settle, but only up to the collection
// budget. The validation goroutine keeps the cache consistent even when its
// channel has already been reported as skipped.
func (s *Scheduler) runTask(ctx context.Context, ch *playlist.Channel, headers map[string]string, results chan<- Result) {
	outcomeCh := make(chan Outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Default.Errorf("General error for %s: %v", ch.Name(), r)
				outcomeCh <- Failed("General error")
			}
		}()
		outcomeCh <- s.checker.Check(ctx, ch.URL, ch.Name(), headers)
	}()

	timer := time.NewTimer(s.collectBudget)
	defer timer.Stop()

	select {
	case outcome := <-outcomeCh:
		results <- Result{Channel: ch, Outcome: outcome}
	case <-timer.C:
		results <- Result{Channel: ch, Outcome: Skipped()}
	case <-ctx.Done():
	}
}
