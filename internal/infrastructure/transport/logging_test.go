package transport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"browser-automation/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingTransport_PreservesBody(t *testing.T) {
	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		received = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	core, logs := observer.New(zap.DebugLevel)
	client := NewClient(logger.NewWithZap(zap.New(core)), 0)

	resp, err := client.Post(srv.URL+"/profiles", "application/json", strings.NewReader(`{"name":"demo"}`))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, `{"name":"demo"}`, received)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, logs.FilterMessage("HTTP Request").Len())
	assert.Equal(t, 1, logs.FilterMessage("HTTP Response").Len())
}

func TestShorten(t *testing.T) {
	long := strings.Repeat("a", maxLoggedString+10)
	out := shorten(map[string]any{
		"url":   long,
		"parts": []any{long, 1.0},
	}).(map[string]any)

	assert.True(t, strings.HasSuffix(out["url"].(string), "...(truncated)"))
	assert.Len(t, out["parts"].([]any)[0].(string), maxLoggedString+len("...(truncated)"))
	assert.Equal(t, 1.0, out["parts"].([]any)[1])
}
