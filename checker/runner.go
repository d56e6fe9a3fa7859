package checker

import (
	"context"
	"fmt"
	"path/filepath"

	"iptv-checker/config"
	"iptv-checker/logger"
	"iptv-checker/playlist"
)

// Runner checks one playlist end to end. The cache and statistics live for
// the lifetime of the Runner and are reset between batch items.
type Runner struct {
	cfg   *config.Config
	cache *ResultCache
	stats *Stats

	newChecker func(cfg *config.Config, cache *ResultCache) StreamChecker
}

func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		cfg:   cfg,
		cache: NewResultCache(),
		stats: &Stats{},
		newChecker: func(cfg *config.Config, cache *ResultCache) StreamChecker {
			return NewValidator(cfg, cache)
		},
	}
}

func (r *Runner) Stats() *Stats {
	return r.stats
}

// Run loads, parses, validates and writes one playlist. An empty savePath
// selects an auto-numbered default under the output directory. The output
// playlist lists channels in completion order, matching the concurrent
// collection loop rather than the input order.
func (r *Runner) Run(ctx context.Context, source, savePath string) error {
	if savePath == "" {
		savePath = filepath.Join(r.cfg.OutputDir, playlist.UniqueFilename(r.cfg.OutputDir, "default.m3u"))
	}

	content, err := playlist.Load(ctx, source)
	if err != nil {
		return fmt.Errorf("loading playlist %s: %w", source, err)
	}

	channels := playlist.Parse(content)
	logger.Default.Logf("Found %d channels in the playlist", len(channels))

	r.cache.Reset()
	r.stats.Reset()

	scheduler := NewScheduler(r.newChecker(r.cfg, r.cache), r.cfg)
	aggregator := NewAggregator(r.stats, playlist.NewSkippedWriter(r.cfg.SkippedFilePath))

	kept := aggregator.Consume(scheduler.Run(ctx, channels))

	if err := playlist.WritePlaylist(savePath, kept); err != nil {
		return fmt.Errorf("writing playlist %s: %w", savePath, err)
	}

	logger.Default.Logf("Playlist saved to %s", savePath)
	r.stats.LogSummary()
	return nil
}
