package rod

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"browser-automation/internal/application/port/output"
	"browser-automation/internal/domain/entity"
	"browser-automation/internal/infrastructure/logger"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

var (
	_ output.BrowserPort      = (*BrowserAdapter)(nil)
	_ output.BrowserConnector = (*Connector)(nil)
)

var (
	ErrInvalidURL      = errors.New("invalid URL")
	ErrInvalidSelector = errors.New("invalid selector")
	ErrBrowserClosed   = errors.New("browser is closed")
)

const (
	defaultTimeout    = 10 * time.Second
	defaultSlowMotion = 0
	idleWindow        = 500 * time.Millisecond
)

type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	logger   output.LoggerPort

	// disconnect drops the CDP connection of a remote browser without
	// closing the browser itself.
	disconnect context.CancelFunc

	mu     sync.Mutex
	closed bool
}

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	DevTools   bool
	// Stealth opens pages with go-rod/stealth evasions applied.
	Stealth bool
	Logger  output.LoggerPort
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   false,
		SlowMotion: defaultSlowMotion,
		Timeout:    defaultTimeout,
		NoSandbox:  false,
		DevTools:   false,
	}
}

func (cfg BrowserConfig) normalized() BrowserConfig {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	return cfg
}

// NewBrowserAdapter launches a local Chrome and opens one page.
func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	cfg = cfg.normalized()

	l := launcher.New().
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("disable-blink-features", "AutomationControlled")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(controlURL).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := openPage(browser, cfg.Stealth)
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, err
	}

	cfg.Logger.Debug("Launched local browser", "headless", cfg.Headless, "stealth", cfg.Stealth)

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
	}, nil
}

// ConnectRemote attaches to a browser over its CDP websocket URL and reuses
// its first open page.
func ConnectRemote(ctx context.Context, wsURL string, cfg BrowserConfig) (*BrowserAdapter, error) {
	cfg = cfg.normalized()
	if wsURL == "" {
		return nil, fmt.Errorf("%w: empty CDP URL", ErrInvalidURL)
	}

	connCtx, disconnect := context.WithCancel(context.Background())
	browser := rod.New().
		ControlURL(wsURL).
		Context(connCtx).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		disconnect()
		return nil, fmt.Errorf("failed to connect over CDP: %w", err)
	}

	var page *rod.Page
	pages, err := browser.Pages()
	if err == nil && len(pages) > 0 {
		page = pages.First()
	} else {
		page, err = openPage(browser, cfg.Stealth)
		if err != nil {
			disconnect()
			return nil, err
		}
	}

	cfg.Logger.Debug("Connected to remote browser", "pages", len(pages))

	return &BrowserAdapter{
		browser:    browser,
		page:       page,
		timeout:    cfg.Timeout,
		logger:     cfg.Logger,
		disconnect: disconnect,
	}, nil
}

func openPage(browser *rod.Browser, useStealth bool) (*rod.Page, error) {
	var page *rod.Page
	var err error
	if useStealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	return page, nil
}

// Connector opens adapters for sessions created through the session API.
type Connector struct {
	cfg BrowserConfig
}

func NewConnector(cfg BrowserConfig) *Connector {
	return &Connector{cfg: cfg}
}

func (c *Connector) Connect(ctx context.Context, session *entity.BrowserSession) (output.BrowserPort, error) {
	if session == nil {
		return nil, fmt.Errorf("%w: no session", ErrInvalidURL)
	}
	return ConnectRemote(ctx, session.CDPWebSocketURL, c.cfg)
}

func (b *BrowserAdapter) IsReady() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed && b.page != nil
}

// pageCtx binds the page to ctx, adding the default timeout when ctx has no
// deadline of its own.
func (b *BrowserAdapter) pageCtx(ctx context.Context) (*rod.Page, error) {
	if !b.IsReady() {
		return nil, ErrBrowserClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	p := b.page.Context(ctx)
	if _, ok := ctx.Deadline(); !ok {
		p = p.Timeout(b.timeout)
	}
	return p, nil
}

func validateURL(raw string) error {
	if raw == "about:blank" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	return nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, rawURL string) error {
	if err := validateURL(rawURL); err != nil {
		return err
	}
	p, err := b.pageCtx(ctx)
	if err != nil {
		return err
	}

	b.logger.Debug("Navigating", "url", rawURL)
	if err := p.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load failed: %w", err)
	}
	return nil
}

// Fill replaces the value of an input or textarea, or picks the option of a
// <select> whose text matches.
func (b *BrowserAdapter) Fill(ctx context.Context, selector, text string) error {
	sel, err := normalizeSelector(selector)
	if err != nil {
		return err
	}
	p, err := b.pageCtx(ctx)
	if err != nil {
		return err
	}

	el, err := findElement(p, sel)
	if err != nil {
		return fmt.Errorf("field not found: %s: %w", selector, err)
	}

	tag, err := el.Eval(`function() { return this.tagName.toLowerCase() }`)
	if err == nil && tag.Value.Str() == "select" {
		if err := el.Select([]string{text}, true, rod.SelectorTypeText); err != nil {
			return fmt.Errorf("select failed: %w", err)
		}
		return nil
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}

	return nil
}

// PressEnter sends Enter to whatever has focus.
func (b *BrowserAdapter) PressEnter(ctx context.Context) error {
	p, err := b.pageCtx(ctx)
	if err != nil {
		return err
	}
	if err := p.Keyboard.Type(input.Enter); err != nil {
		return fmt.Errorf("failed to press Enter: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) CurrentURL() string {
	if !b.IsReady() {
		return ""
	}
	info, err := b.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// Close is idempotent. Local browsers are killed; remote ones are only
// disconnected so the session API keeps owning them.
func (b *BrowserAdapter) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	if b.disconnect != nil {
		b.disconnect()
		return
	}
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

func isXPathSelector(selector string) bool {
	return strings.HasPrefix(selector, "/") ||
		strings.HasPrefix(selector, "(/") ||
		strings.HasPrefix(selector, "xpath=")
}

func normalizeSelector(selector string) (string, error) {
	s := strings.TrimSpace(selector)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidSelector)
	}
	return s, nil
}

// findElement waits for selector (CSS or XPath) until the page context ends.
func findElement(p *rod.Page, selector string) (*rod.Element, error) {
	if isXPathSelector(selector) {
		return p.ElementX(strings.TrimPrefix(selector, "xpath="))
	}
	return p.Element(selector)
}

// findElements returns current matches without waiting.
func findElements(p *rod.Page, selector string) (rod.Elements, error) {
	if isXPathSelector(selector) {
		return p.ElementsX(strings.TrimPrefix(selector, "xpath="))
	}
	return p.Elements(selector)
}
