// Package transport holds the http.RoundTripper shared by the API clients.
package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"browser-automation/internal/application/port/output"
)

// maxLoggedString caps string values (base64 screenshots) in logged bodies.
const maxLoggedString = 512

type LoggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

func NewLoggingTransport(base http.RoundTripper, logger output.LoggerPort) *LoggingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &LoggingTransport{base: base, logger: logger}
}

// NewClient returns an *http.Client logging through logger, or a plain
// client when logger is nil.
func NewClient(logger output.LoggerPort, timeout time.Duration) *http.Client {
	client := &http.Client{Timeout: timeout}
	if logger != nil {
		client.Transport = NewLoggingTransport(http.DefaultTransport, logger)
	}
	return client
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.logger == nil {
		return t.base.RoundTrip(req)
	}

	var bodyBytes []byte
	if req.Body != nil {
		bodyBytes, _ = io.ReadAll(req.Body)
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	}

	var requestData any
	if len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, &requestData); err == nil {
			requestData = shorten(requestData)
		}
	}

	t.logger.Debug("HTTP Request",
		"method", req.Method,
		"url", req.URL.String(),
		"body", requestData,
	)

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Warn("HTTP Request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"error", err,
		)
		return resp, err
	}

	t.logger.Debug("HTTP Response",
		"status", resp.Status,
		"statusCode", resp.StatusCode,
		"duration", time.Since(start),
	)

	return resp, nil
}

func shorten(v any) any {
	switch val := v.(type) {
	case string:
		if len(val) > maxLoggedString {
			return val[:maxLoggedString] + "...(truncated)"
		}
		return val
	case map[string]any:
		for k, item := range val {
			val[k] = shorten(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = shorten(item)
		}
		return val
	default:
		return v
	}
}
