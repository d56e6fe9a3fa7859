package playlist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"iptv-checker/logger"
)

// Load reads a playlist from a local path or fetches it over HTTP(S) and
// guarantees the returned text starts with the #EXTM3U header marker.
func Load(ctx context.Context, source string) (string, error) {
	var content string

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		logger.Default.Logf("Downloading playlist from URL: %s", source)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return "", fmt.Errorf("building playlist request: %w", err)
		}

		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			return "", fmt.Errorf("downloading playlist: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("downloading playlist: unexpected status code %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("reading playlist body: %w", err)
		}
		content = string(body)
	} else {
		data, err := os.ReadFile(source)
		if err != nil {
			return "", fmt.Errorf("reading playlist file: %w", err)
		}
		content = string(data)
	}

	if !strings.HasPrefix(strings.TrimSpace(content), "#EXTM3U") {
		content = "#EXTM3U\n" + content
	}
	return content, nil
}
