package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"iptv-checker/checker"
	"iptv-checker/config"
	"iptv-checker/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Default.Errorf("%v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "iptv-checker",
		Short:         "Validates the liveness of streams in M3U playlists",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), v)
		},
	}

	flags := cmd.Flags()
	flags.StringP("playlist", "p", "", "playlist URL or file path")
	flags.StringP("save", "s", "", "path for the filtered playlist")
	flags.IntP("workers", "t", 4, "number of concurrent checks")
	flags.Int("retries", 1, "retry count per stream after the initial attempt")
	flags.Duration("probe-timeout", 25*time.Second, "decode probe timeout")
	flags.Int("probe-rate", 0, "max validation tasks launched per second (0 = unlimited)")
	flags.String("input-dir", "", "check every playlist file in a directory")
	flags.String("url-list", "", "file listing playlist URLs to check")
	flags.String("schedule", "", "cron expression to re-run the check on")

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix("CHECKER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

func run(ctx context.Context, v *viper.Viper) error {
	cfg := config.FromViper(v)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tools := checker.ProbeTools{
		Decode:     cfg.DecodeTool,
		Metadata:   cfg.MetadataTool,
		HTTPStatus: cfg.HTTPStatusTool,
	}
	if err := tools.CheckDependencies(); err != nil {
		return err
	}

	runner := checker.NewRunner(cfg)

	job := func() error {
		switch {
		case v.GetString("url-list") != "":
			return runURLList(ctx, runner, cfg, v.GetString("url-list"))
		case v.GetString("input-dir") != "":
			return runDirectory(ctx, runner, cfg, v.GetString("input-dir"))
		case v.GetString("playlist") != "":
			return runner.Run(ctx, v.GetString("playlist"), v.GetString("save"))
		default:
			return fmt.Errorf("a playlist must be provided unless --input-dir or --url-list is used")
		}
	}

	if expr := v.GetString("schedule"); expr != "" {
		return runScheduled(ctx, expr, job)
	}
	return job()
}

// runScheduled re-runs the whole check on a cron schedule until interrupted.
func runScheduled(ctx context.Context, expr string, job func() error) error {
	c := cron.New()
	if _, err := c.AddFunc(expr, func() {
		if err := job(); err != nil {
			logger.Default.Errorf("Scheduled check failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", expr, err)
	}

	logger.Default.Logf("Running on schedule %q, press Ctrl+C to stop", expr)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func isPlaylistFile(name string) bool {
	return strings.HasSuffix(name, ".m3u") || strings.HasSuffix(name, ".m3u8")
}

// runDirectory checks every playlist file in inputDir, writing a
// checked_<name> output per input.
func runDirectory(ctx context.Context, runner *checker.Runner, cfg *config.Config, inputDir string) error {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return fmt.Errorf("reading input directory %s: %w", inputDir, err)
	}

	found := false
	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		name := entry.Name()
		if entry.IsDir() || !isPlaylistFile(name) {
			continue
		}
		found = true

		logger.Default.Logf("Processing %s", name)
		out := filepath.Join(cfg.OutputDir, "checked_"+name)
		if err := runner.Run(ctx, filepath.Join(inputDir, name), out); err != nil {
			logger.Default.Errorf("Error processing %s: %v", name, err)
		}
	}

	if !found {
		logger.Default.Warnf("No playlist files found in %s", inputDir)
	}
	return nil
}

// runURLList checks every playlist URL listed in listPath, one per line,
// ignoring blanks and comments.
func runURLList(ctx context.Context, runner *checker.Runner, cfg *config.Config, listPath string) error {
	data, err := os.ReadFile(listPath)
	if err != nil {
		return fmt.Errorf("reading URL list %s: %w", listPath, err)
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}

	if len(urls) == 0 {
		logger.Default.Warnf("No valid URLs found in %s", listPath)
		return nil
	}
	logger.Default.Logf("Found %d playlist URLs", len(urls))

	for i, u := range urls {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Default.Logf("[%d/%d] Processing %s", i+1, len(urls), u)

		name := u[strings.LastIndex(u, "/")+1:]
		if !isPlaylistFile(name) {
			name = fmt.Sprintf("playlist_%d.m3u8", i+1)
		}

		if err := runner.Run(ctx, u, filepath.Join(cfg.OutputDir, "checked_"+name)); err != nil {
			logger.Default.Errorf("Error processing %s: %v", u, err)
		}
	}
	return nil
}
