package checker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultCacheRunsOncePerURL(t *testing.T) {
	cache := NewResultCache()
	var calls atomic.Int64

	var wg sync.WaitGroup
	outcomes := make([]Outcome, 10)
	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = cache.Do("http://example.com/stream", func() Outcome {
				calls.Add(1)
				time.Sleep(10 * time.Millisecond)
				return Working()
			})
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, outcome := range outcomes {
		assert.Equal(t, Working(), outcome)
	}
}

func TestResultCacheReusesInstalledOutcome(t *testing.T) {
	cache := NewResultCache()

	first := cache.Do("http://example.com/a", func() Outcome {
		return Failed("Stream not found (404)")
	})
	second := cache.Do("http://example.com/a", func() Outcome {
		t.Fatal("second caller must reuse the installed outcome")
		return Working()
	})

	assert.Equal(t, first, second)

	installed, ok := cache.Lookup("http://example.com/a")
	require.True(t, ok)
	assert.Equal(t, first, installed)
}

func TestResultCacheDistinctURLs(t *testing.T) {
	cache := NewResultCache()

	a := cache.Do("http://example.com/a", func() Outcome { return Working() })
	b := cache.Do("http://example.com/b", func() Outcome { return Failed("Stream does not work") })

	assert.Equal(t, StatusWorking, a.Status)
	assert.Equal(t, StatusFailed, b.Status)
	assert.Equal(t, 2, cache.Len())
}

func TestResultCacheReset(t *testing.T) {
	cache := NewResultCache()
	cache.Do("http://example.com/a", func() Outcome { return Working() })
	require.Equal(t, 1, cache.Len())

	cache.Reset()
	assert.Equal(t, 0, cache.Len())

	_, ok := cache.Lookup("http://example.com/a")
	assert.False(t, ok)
}
