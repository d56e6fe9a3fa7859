package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDecodeError(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{"forbidden", "Server returned 403 Forbidden (access denied)", "Access forbidden (403)"},
		{"not found", "Server returned 404 Not Found", "Stream not found (404)"},
		{"unauthorized", "Server returned 401 Unauthorized", "Authentication required (401)"},
		{"protocol", "Protocol not found for input", "Protocol not supported"},
		{"refused", "Connection refused by peer", "Connection refused"},
		{"resource", "Unable to open resource: stream", "Unable to open resource"},
		{"fallback", "something entirely different", "Stream does not work"},
		{"empty", "", "Stream does not work"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifyDecodeError(tc.stderr))
		})
	}
}

func TestClassifyDecodeErrorPrecedence(t *testing.T) {
	// Both signatures present: the earlier table entry must win.
	stderr := "Server returned 404 Not Found after redirect from 403 Forbidden"
	assert.Equal(t, "Access forbidden (403)", classifyDecodeError(stderr))
}

func TestClassifyTransportError(t *testing.T) {
	assert.Equal(t, "No connection!", classifyTransportError("No connection adapters were found"))
	assert.Equal(t, "Request timeout", classifyTransportError("Client.Timeout exceeded while awaiting headers"))
	assert.Equal(t, "Request timeout", classifyTransportError("context deadline exceeded (timeout)"))
	assert.Equal(t, "Access forbidden (403)", classifyTransportError("server said: 403 Forbidden"))
	assert.Equal(t, "Request error", classifyTransportError("connect: connection refused"))
}
