package checker

import (
	"context"
	"crypto/tls"
	"net/http"
	"strconv"
	"strings"
	"time"

	"iptv-checker/config"
	"iptv-checker/logger"
)

// StreamChecker validates one stream URL into a terminal outcome.
type StreamChecker interface {
	Check(ctx context.Context, url, name string, headers map[string]string) Outcome
}

// Validator runs the layered probe pipeline for one URL: an HTTP preflight
// that only tunes the decode budget, the decode probe, and two
// first-attempt-only fallbacks. It returns pure outcomes; counting is the
// aggregator's job.
type Validator struct {
	cache  *ResultCache
	tools  ProbeTools
	client *http.Client

	probeTimeout time.Duration
	retries      int
	backoff      time.Duration

	run probeFunc
}

func NewValidator(cfg *config.Config, cache *ResultCache) *Validator {
	return &Validator{
		cache: cache,
		tools: ProbeTools{
			Decode:     cfg.DecodeTool,
			Metadata:   cfg.MetadataTool,
			HTTPStatus: cfg.HTTPStatusTool,
		},
		client: &http.Client{
			Timeout: cfg.HTTPTimeout,
			Transport: &http.Transport{
				// Streaming hosts routinely present self-signed or
				// misconfigured certificates; the preflight tests
				// reachability, not trust.
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		probeTimeout: cfg.ProbeTimeout,
		retries:      cfg.Retries,
		backoff:      cfg.RetryBackoff,
		run:          runProbe,
	}
}

// Check validates one stream URL, consulting the shared cache so aliased
// channels never re-invoke the external probes.
func (v *Validator) Check(ctx context.Context, url, name string, headers map[string]string) Outcome {
	return v.cache.Do(url, func() Outcome {
		return v.validate(ctx, url, name, headers)
	})
}

func (v *Validator) validate(ctx context.Context, url, name string, headers map[string]string) Outcome {
	for attempt := 0; attempt <= v.retries; attempt++ {
		logger.Default.Debugf("Checking stream %s (%s) with headers %v, attempt %d/%d",
			name, url, headers, attempt+1, v.retries+1)

		outcome, settled := v.attempt(ctx, url, name, headers, attempt == 0, attempt == v.retries)
		if settled {
			return outcome
		}

		select {
		case <-ctx.Done():
			return Failed("Request error")
		case <-time.After(v.backoff):
		}
	}
	return Failed("Stream does not work")
}

// attempt runs one full pass over the probe stages. settled is false when
// the caller should back off and retry.
func (v *Validator) attempt(ctx context.Context, url, name string, headers map[string]string, first, last bool) (outcome Outcome, settled bool) {
	isHTTP := strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")

	// Stage 1: HTTP preflight. Its only effect is shrinking the decode
	// budget when the endpoint already answered 200; redundant
	// confirmation is unnecessary.
	decodeTimeout := v.probeTimeout
	var transportErr error
	if isHTTP {
		ok, err := v.preflight(ctx, url, headers)
		transportErr = err
		if err != nil {
			logger.Default.Debugf("HTTP preflight failed for %s: %v", name, err)
		}
		if ok && decodeTimeout > 10*time.Second {
			decodeTimeout = 10 * time.Second
		}
	}

	// Stage 2: decode probe.
	dec := v.run(ctx, decodeTimeout, v.tools.Decode, decodeArgs(url, headers)...)
	if dec.timedOut {
		logger.Default.Debugf("Decode probe timeout for %s", name)
		if last {
			return TimedOut(), true
		}
		return Outcome{}, false
	}
	if dec.exitOK {
		return Working(), true
	}
	logger.Default.Debugf("Decode probe diagnostics for %s: %s", name, dec.stderr)

	if first {
		// Stage 3: metadata probe, sometimes more lenient than a full
		// decode. A printed duration above zero also counts.
		meta := v.run(ctx, decodeTimeout, v.tools.Metadata, metadataArgs(url, headers)...)
		if meta.exitOK || parseDuration(meta.stdout) > 0 {
			return Working(), true
		}

		// Stage 4: redirect-aware header fetch, only worth trying when
		// the channel carries headers of its own.
		if isHTTP && len(headers) > 0 {
			status := v.run(ctx, 10*time.Second, v.tools.HTTPStatus, httpStatusArgs(url, headers)...)
			if status.exitOK && strings.Contains(status.stdout, "200 OK") {
				return Working(), true
			}
		}
	}

	if last {
		if dec.stderr == "" && transportErr != nil {
			return Failed(classifyTransportError(transportErr.Error())), true
		}
		return Failed(classifyDecodeError(dec.stderr)), true
	}
	return Outcome{}, false
}

// preflight issues a HEAD, falling back to a streamed GET because many IPTV
// servers reject HEAD outright. The GET body is closed as soon as headers
// arrive to avoid downloading payload.
func (v *Validator) preflight(ctx context.Context, url string, headers map[string]string) (bool, error) {
	ok, err := v.request(ctx, http.MethodHead, url, headers)
	if err != nil || ok {
		return ok, err
	}
	return v.request(ctx, http.MethodGet, url, headers)
}

func (v *Validator) request(ctx context.Context, method, url string, headers map[string]string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return false, err
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

func parseDuration(out string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0
	}
	return f
}
