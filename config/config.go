package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config carries every tunable for one checker run. Values come from flags
// and CHECKER_* environment variables; nothing is persisted between runs.
type Config struct {
	Workers      int
	Retries      int
	ProbeTimeout time.Duration
	HTTPTimeout  time.Duration
	RetryBackoff time.Duration
	// ProbeRate caps how many validation tasks may launch per second.
	// Zero disables rate limiting.
	ProbeRate int

	OutputDir       string
	SkippedFilePath string

	DecodeTool     string
	MetadataTool   string
	HTTPStatusTool string
}

// New returns the defaults used by a plain invocation.
func New() *Config {
	return &Config{
		Workers:         4,
		Retries:         1,
		ProbeTimeout:    25 * time.Second,
		HTTPTimeout:     15 * time.Second,
		RetryBackoff:    2 * time.Second,
		ProbeRate:       0,
		OutputDir:       "output",
		SkippedFilePath: "other/skipped.txt",
		DecodeTool:      "ffmpeg",
		MetadataTool:    "ffprobe",
		HTTPStatusTool:  "curl",
	}
}

// FromViper overlays bound flag and environment values onto the defaults.
func FromViper(v *viper.Viper) *Config {
	def := New()
	v.SetDefault("workers", def.Workers)
	v.SetDefault("retries", def.Retries)
	v.SetDefault("probe-timeout", def.ProbeTimeout)
	v.SetDefault("http-timeout", def.HTTPTimeout)
	v.SetDefault("retry-backoff", def.RetryBackoff)
	v.SetDefault("probe-rate", def.ProbeRate)
	v.SetDefault("output-dir", def.OutputDir)
	v.SetDefault("skipped-file", def.SkippedFilePath)
	v.SetDefault("decode-tool", def.DecodeTool)
	v.SetDefault("metadata-tool", def.MetadataTool)
	v.SetDefault("http-status-tool", def.HTTPStatusTool)

	return &Config{
		Workers:         v.GetInt("workers"),
		Retries:         v.GetInt("retries"),
		ProbeTimeout:    v.GetDuration("probe-timeout"),
		HTTPTimeout:     v.GetDuration("http-timeout"),
		RetryBackoff:    v.GetDuration("retry-backoff"),
		ProbeRate:       v.GetInt("probe-rate"),
		OutputDir:       v.GetString("output-dir"),
		SkippedFilePath: v.GetString("skipped-file"),
		DecodeTool:      v.GetString("decode-tool"),
		MetadataTool:    v.GetString("metadata-tool"),
		HTTPStatusTool:  v.GetString("http-status-tool"),
	}
}

// CollectBudget is the hard ceiling the scheduler grants one task before
// reporting it as skipped: every attempt's probe window plus the backoff
// between attempts, with headroom for the HTTP preflight.
func (c *Config) CollectBudget() time.Duration {
	attempts := time.Duration(c.Retries + 1)
	return attempts*c.ProbeTimeout + time.Duration(c.Retries)*c.RetryBackoff + 2*c.HTTPTimeout
}
