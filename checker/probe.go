package checker

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"iptv-checker/playlist"
)

// ProbeTools names the external binaries the validator shells out to.
type ProbeTools struct {
	Decode     string
	Metadata   string
	HTTPStatus string
}

// CheckDependencies verifies the probe binaries are reachable before any
// channel is processed. A missing tool aborts the run. The HTTP status tool
// is a last-resort fallback and is allowed to be absent.
func (t ProbeTools) CheckDependencies() error {
	for _, tool := range []string{t.Decode, t.Metadata} {
		path, err := exec.LookPath(tool)
		if err != nil {
			return fmt.Errorf("%s is not installed or not found in PATH", tool)
		}
		if err := exec.Command(path, "-version").Run(); err != nil {
			return fmt.Errorf("error when trying to execute %s: %w", tool, err)
		}
	}
	return nil
}

// probeResult carries one subprocess invocation's observable outcome.
type probeResult struct {
	stdout   string
	stderr   string
	exitOK   bool
	timedOut bool
}

// probeFunc runs one external probe; swapped out in tests.
type probeFunc func(ctx context.Context, timeout time.Duration, name string, args ...string) probeResult

// runProbe executes a tool with a hard ceiling. CommandContext kills the
// process outright once the deadline passes so a wedged probe cannot hold
// a network socket open.
func runProbe(ctx context.Context, timeout time.Duration, name string, args ...string) probeResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return probeResult{
		stdout:   stdout.String(),
		stderr:   stderr.String(),
		exitOK:   err == nil,
		timedOut: ctx.Err() == context.DeadlineExceeded,
	}
}

// decodeArgs builds the decode probe invocation: read only the first three
// seconds of the stream, reconnect on drops, discard the decoded output.
func decodeArgs(url string, headers map[string]string) []string {
	args := headerArgs(headers)
	return append(args,
		"-loglevel", "warning",
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-i", url,
		"-t", "3",
		"-f", "null", "-",
	)
}

// metadataArgs builds the metadata probe invocation: extract the container
// duration without a full decode.
func metadataArgs(url string, headers map[string]string) []string {
	args := headerArgs(headers)
	return append(args,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		"-i", url,
	)
}

// httpStatusArgs builds the redirect-following header fetch.
func httpStatusArgs(url string, headers map[string]string) []string {
	args := []string{"-s", "-I", "-L"}
	for _, key := range sortedKeys(headers) {
		args = append(args, "-H", fmt.Sprintf("%s: %s", key, headers[key]))
	}
	return append(args, url)
}

// headerArgs translates a header set into the decode tools' injection
// mechanism: User-Agent through its dedicated flag, everything else as a
// single block of CRLF-terminated "Key: Value" pairs.
func headerArgs(headers map[string]string) []string {
	var args []string
	if ua, ok := headers["User-Agent"]; ok && ua != "" {
		args = append(args, "-user_agent", ua)
	}

	var block strings.Builder
	for _, key := range sortedKeys(headers) {
		if key == "User-Agent" || headers[key] == "" {
			continue
		}
		block.WriteString(fmt.Sprintf("%s: %s\r\n", playlist.TitleCaseHeader(key), headers[key]))
	}
	if block.Len() > 0 {
		args = append(args, "-headers", block.String())
	}
	return args
}

// sortedKeys keeps subprocess argument order deterministic.
func sortedKeys(headers map[string]string) []string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
