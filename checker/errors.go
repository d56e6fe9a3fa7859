package checker

import "strings"

// errorPattern maps a diagnostic substring to a human reason. Patterns are
// evaluated in order; two substrings can co-occur in one diagnostic stream
// and the first match must win.
type errorPattern struct {
	substring string
	reason    string
}

var decodePatterns = []errorPattern{
	{"403 Forbidden", "Access forbidden (403)"},
	{"404 Not Found", "Stream not found (404)"},
	{"401 Unauthorized", "Authentication required (401)"},
	{"Protocol not found", "Protocol not supported"},
	{"Connection refused", "Connection refused"},
	{"Unable to open resource", "Unable to open resource"},
}

var transportPatterns = []errorPattern{
	{"No connection adapters", "No connection!"},
	{"Timeout", "Request timeout"},
	{"timeout", "Request timeout"},
	{"403 Forbidden", "Access forbidden (403)"},
}

// classifyDecodeError scans the decode probe's diagnostic stream for known
// failure signatures.
func classifyDecodeError(stderr string) string {
	for _, p := range decodePatterns {
		if strings.Contains(stderr, p.substring) {
			return p.reason
		}
	}
	return "Stream does not work"
}

// classifyTransportError simplifies request-layer errors from the HTTP
// preflight into coarse categories.
func classifyTransportError(message string) string {
	for _, p := range transportPatterns {
		if strings.Contains(message, p.substring) {
			return p.reason
		}
	}
	return "Request error"
}
