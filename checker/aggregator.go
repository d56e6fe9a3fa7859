package checker

import (
	"fmt"
	"sync/atomic"

	"iptv-checker/logger"
	"iptv-checker/playlist"
)

// Stats holds the four monotonically increasing run counters. Only the
// aggregator writes them; reads are meaningful once all tasks settle.
type Stats struct {
	working  atomic.Int64
	failed   atomic.Int64
	timedOut atomic.Int64
	skipped  atomic.Int64
}

func (s *Stats) Working() int64 { return s.working.Load() }

func (s *Stats) Failed() int64 { return s.failed.Load() }

func (s *Stats) TimedOut() int64 { return s.timedOut.Load() }

func (s *Stats) Skipped() int64 { return s.skipped.Load() }

func (s *Stats) Total() int64 {
	return s.Working() + s.Failed() + s.TimedOut() + s.Skipped()
}

// Reset zeroes the counters for the next batch item.
func (s *Stats) Reset() {
	s.working.Store(0)
	s.failed.Store(0)
	s.timedOut.Store(0)
	s.skipped.Store(0)
}

// Summary renders the counts with percentages relative to the total.
// Percentages are omitted when nothing was processed.
func (s *Stats) Summary() string {
	total := s.Total()
	if total == 0 {
		return "No channels were processed."
	}

	pct := func(n int64) float64 {
		return float64(n) / float64(total) * 100
	}
	return fmt.Sprintf(
		"total: %d, working: %d (%.2f%%), failed: %d (%.2f%%), timed out: %d (%.2f%%), skipped: %d (%.2f%%)",
		total,
		s.Working(), pct(s.Working()),
		s.Failed(), pct(s.Failed()),
		s.TimedOut(), pct(s.TimedOut()),
		s.Skipped(), pct(s.Skipped()),
	)
}

func (s *Stats) LogSummary() {
	logger.Default.Logf("=== Summary === %s", s.Summary())
}

// Aggregator consumes settled results: it owns the statistics, the output
// channel list and the skipped side file. It is the single writer for all
// three.
type Aggregator struct {
	stats   *Stats
	skipped *playlist.SkippedWriter
}

func NewAggregator(stats *Stats, skipped *playlist.SkippedWriter) *Aggregator {
	return &Aggregator{stats: stats, skipped: skipped}
}

// Consume drains the results stream, keeping working channels for the
// output playlist and appending skipped channels to the side file. Each
// channel increments exactly one counter.
func (a *Aggregator) Consume(results <-chan Result) []*playlist.Channel {
	var kept []*playlist.Channel

	for res := range results {
		name := res.Channel.Name()

		switch res.Outcome.Status {
		case StatusWorking:
			a.stats.working.Add(1)
			kept = append(kept, res.Channel)
			logger.Default.Logf("[SUCCESS] %s", name)
		case StatusFailed:
			a.stats.failed.Add(1)
			logger.Default.Errorf("[FAIL] %s - %s", name, res.Outcome.Reason)
		case StatusTimedOut:
			a.stats.timedOut.Add(1)
			logger.Default.Errorf("[TIMEOUT] %s", name)
		case StatusSkipped:
			a.stats.skipped.Add(1)
			logger.Default.Warnf("[SKIPPED] %s - Took too long", name)
			if err := a.skipped.Append(res.Channel); err != nil {
				logger.Default.Errorf("Error recording skipped channel %s: %v", name, err)
			}
		}
	}
	return kept
}
