// Package kernel is a client for the hosted browser-session API.
package kernel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"browser-automation/internal/application/port/output"
	"browser-automation/internal/domain/entity"
	"browser-automation/internal/infrastructure/transport"

	"github.com/tidwall/gjson"
)

var _ output.SessionAPIPort = (*Client)(nil)

const DefaultBaseURL = "https://api.onkernel.com"

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  output.LoggerPort
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  output.LoggerPort
}

// APIError is a non-2xx reply. It matches entity.ErrAlreadyExists (409) and
// entity.ErrNotFound (404) under errors.Is.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("session API: status %d", e.StatusCode)
	}
	return fmt.Sprintf("session API: status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case entity.ErrAlreadyExists:
		return e.StatusCode == http.StatusConflict
	case entity.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("kernel: API key is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("kernel: invalid base URL %q: %w", base, err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  cfg.APIKey,
		http:    transport.NewClient(cfg.Logger, timeout),
		logger:  cfg.Logger,
	}, nil
}

func (c *Client) CreateProfile(ctx context.Context, name string) (*entity.Profile, error) {
	var profile entity.Profile
	if err := c.do(ctx, http.MethodPost, "/profiles", map[string]string{"name": name}, &profile); err != nil {
		return nil, fmt.Errorf("create profile %q: %w", name, err)
	}
	return &profile, nil
}

func (c *Client) CreateBrowser(ctx context.Context, req entity.CreateBrowserRequest) (*entity.BrowserSession, error) {
	var session entity.BrowserSession
	if err := c.do(ctx, http.MethodPost, "/browsers", req, &session); err != nil {
		return nil, fmt.Errorf("create browser: %w", err)
	}
	if session.CDPWebSocketURL == "" {
		return nil, fmt.Errorf("create browser: response has no cdp_ws_url")
	}
	return &session, nil
}

func (c *Client) DeleteBrowser(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("delete browser: empty session id")
	}
	if err := c.do(ctx, http.MethodDelete, "/browsers/"+url.PathEscape(sessionID), nil, nil); err != nil {
		return fmt.Errorf("delete browser %s: %w", sessionID, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls a human-readable message out of an error body.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}
	for _, path := range []string{"message", "error.message", "error", "detail"} {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.String() != "" {
			return r.String()
		}
	}
	return ""
}
