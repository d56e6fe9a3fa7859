package checker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeArgs(t *testing.T) {
	args := decodeArgs("http://example.com/x.m3u8", map[string]string{
		"User-Agent": "Foo/1.0",
		"Referer":    "http://r.example.com",
		"X-Token":    "abc",
	})

	require.Equal(t, "-user_agent", args[0])
	require.Equal(t, "Foo/1.0", args[1])
	require.Equal(t, "-headers", args[2])
	assert.Equal(t, "Referer: http://r.example.com\r\nX-Token: abc\r\n", args[3])

	assert.Contains(t, args, "-reconnect")
	assert.Contains(t, args, "-i")
	assert.Contains(t, args, "http://example.com/x.m3u8")

	// Only the first 3 seconds are decoded.
	for i, a := range args {
		if a == "-t" {
			assert.Equal(t, "3", args[i+1])
		}
	}
}

func TestDecodeArgsWithoutHeaders(t *testing.T) {
	args := decodeArgs("http://example.com/x", nil)
	assert.NotContains(t, args, "-user_agent")
	assert.NotContains(t, args, "-headers")
}

func TestMetadataArgs(t *testing.T) {
	args := metadataArgs("http://example.com/x", map[string]string{"User-Agent": "UA"})

	assert.Equal(t, []string{
		"-user_agent", "UA",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		"-i", "http://example.com/x",
	}, args)
}

func TestHTTPStatusArgs(t *testing.T) {
	args := httpStatusArgs("http://example.com/x", map[string]string{
		"User-Agent": "UA",
		"Referer":    "http://r.example.com",
	})

	assert.Equal(t, []string{
		"-s", "-I", "-L",
		"-H", "Referer: http://r.example.com",
		"-H", "User-Agent: UA",
		"http://example.com/x",
	}, args)
}

func TestRunProbeCapturesOutput(t *testing.T) {
	res := runProbe(context.Background(), 5*time.Second, "sh", "-c", "echo out; echo err 1>&2")

	assert.True(t, res.exitOK)
	assert.False(t, res.timedOut)
	assert.Equal(t, "out\n", res.stdout)
	assert.Equal(t, "err\n", res.stderr)
}

func TestRunProbeNonZeroExit(t *testing.T) {
	res := runProbe(context.Background(), 5*time.Second, "sh", "-c", "echo '403 Forbidden' 1>&2; exit 1")

	assert.False(t, res.exitOK)
	assert.False(t, res.timedOut)
	assert.Contains(t, res.stderr, "403 Forbidden")
}

func TestRunProbeHardTimeout(t *testing.T) {
	start := time.Now()
	res := runProbe(context.Background(), 100*time.Millisecond, "sleep", "10")

	assert.True(t, res.timedOut)
	assert.False(t, res.exitOK)
	assert.Less(t, time.Since(start), 5*time.Second)
}
