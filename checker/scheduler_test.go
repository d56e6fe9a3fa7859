package checker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iptv-checker/config"
	"iptv-checker/playlist"
)

// fakeChecker settles with a canned outcome per URL after an optional delay.
type fakeChecker struct {
	mu          sync.Mutex
	delay       time.Duration
	outcomes    map[string]Outcome
	seen        map[string]map[string]string
	inFlight    int
	maxInFlight int
}

func (f *fakeChecker) Check(ctx context.Context, url, _ string, headers map[string]string) Outcome {
	f.mu.Lock()
	if f.seen != nil {
		f.seen[url] = headers
	}
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	delay := f.delay
	outcome, ok := f.outcomes[url]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
		}
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if !ok {
		return Working()
	}
	return outcome
}

func schedulerConfig() *config.Config {
	cfg := config.New()
	cfg.ProbeTimeout = 100 * time.Millisecond
	cfg.HTTPTimeout = 10 * time.Millisecond
	cfg.RetryBackoff = time.Millisecond
	cfg.Retries = 0
	return cfg
}

func testChannels(n int) []*playlist.Channel {
	channels := make([]*playlist.Channel, 0, n)
	for i := 0; i < n; i++ {
		channels = append(channels, &playlist.Channel{
			Extinf: fmt.Sprintf("#EXTINF:-1,Channel %d", i),
			URL:    fmt.Sprintf("http://example.com/%d", i),
		})
	}
	return channels
}

func collect(results <-chan Result) []Result {
	var all []Result
	for res := range results {
		all = append(all, res)
	}
	return all
}

func TestSchedulerEmitsOneResultPerChannel(t *testing.T) {
	channels := testChannels(8)
	fake := &fakeChecker{outcomes: map[string]Outcome{
		"http://example.com/1": Failed("Stream does not work"),
		"http://example.com/2": TimedOut(),
	}}

	s := NewScheduler(fake, schedulerConfig())
	results := collect(s.Run(context.Background(), channels))

	require.Len(t, results, 8)

	byName := make(map[string]Outcome)
	for _, res := range results {
		byName[res.Channel.Name()] = res.Outcome
	}
	assert.Len(t, byName, 8)
	assert.Equal(t, StatusFailed, byName["Channel 1"].Status)
	assert.Equal(t, StatusTimedOut, byName["Channel 2"].Status)
	assert.Equal(t, StatusWorking, byName["Channel 0"].Status)
}

func TestSchedulerSkipsOvertimeTasks(t *testing.T) {
	channels := testChannels(3)
	fake := &fakeChecker{delay: 2 * time.Second}

	cfg := schedulerConfig()
	cfg.ProbeTimeout = 10 * time.Millisecond
	cfg.HTTPTimeout = 5 * time.Millisecond

	s := NewScheduler(fake, cfg)
	results := collect(s.Run(context.Background(), channels))

	require.Len(t, results, 3)
	for _, res := range results {
		assert.Equal(t, StatusSkipped, res.Outcome.Status)
	}
}

func TestSchedulerPassesExtractedHeaders(t *testing.T) {
	channels := []*playlist.Channel{{
		Extinf:  "#EXTINF:-1,Test",
		Options: []string{"#EXTVLCOPT:http-user-agent=Foo/1.0"},
		URL:     "http://example.com/x.m3u8",
	}}
	fake := &fakeChecker{seen: make(map[string]map[string]string)}

	s := NewScheduler(fake, schedulerConfig())
	results := collect(s.Run(context.Background(), channels))

	require.Len(t, results, 1)
	assert.Equal(t, map[string]string{"User-Agent": "Foo/1.0"}, fake.seen["http://example.com/x.m3u8"])
}

func TestSchedulerBoundsConcurrency(t *testing.T) {
	channels := testChannels(6)
	fake := &fakeChecker{delay: 50 * time.Millisecond}

	cfg := schedulerConfig()
	cfg.Workers = 2

	s := NewScheduler(fake, cfg)
	results := collect(s.Run(context.Background(), channels))

	require.Len(t, results, 6)
	assert.LessOrEqual(t, fake.maxInFlight, 2)
}

func TestSchedulerStopsDispatchOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := &fakeChecker{}
	s := NewScheduler(fake, schedulerConfig())
	results := collect(s.Run(ctx, testChannels(5)))

	assert.Empty(t, results)
}

func TestSchedulerRateLimitedDispatch(t *testing.T) {
	channels := testChannels(4)
	fake := &fakeChecker{}

	cfg := schedulerConfig()
	cfg.ProbeRate = 100

	s := NewScheduler(fake, cfg)
	results := collect(s.Run(context.Background(), channels))

	assert.Len(t, results, 4)
}
