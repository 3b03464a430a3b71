// Package login drives the oracle-guided login loop: read the page, ask the
// human for whatever the oracle says is missing, submit, wait, repeat.
package login

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"browser-automation/internal/application/port/input"
	"browser-automation/internal/application/port/output"
	"browser-automation/internal/domain/entity"
	"browser-automation/internal/usecase/submit"
)

var _ input.LoginRunner = (*UseCase)(nil)

const (
	DefaultMaxAttempts = 6
	DefaultWaitTimeout = 10 * time.Second
)

var ErrInvalidTarget = errors.New("target URL must be absolute http(s)")

type Config struct {
	MaxAttempts  int
	WaitTimeout  time.Duration
	ClickTimeout time.Duration
	// TargetDomain scopes the saved cookies. Empty means the host of the
	// target URL.
	TargetDomain string
}

type UseCase struct {
	browser   output.BrowserPort
	oracle    output.OraclePort
	extractor output.FormExtractor
	renderer  output.PageTextRenderer
	user      output.UserInteractionPort
	cookies   output.CookieWriter
	logger    output.LoggerPort
	heuristic *submit.Heuristic
	cfg       Config
}

func New(
	browser output.BrowserPort,
	oracle output.OraclePort,
	extractor output.FormExtractor,
	renderer output.PageTextRenderer,
	user output.UserInteractionPort,
	cookies output.CookieWriter,
	logger output.LoggerPort,
	cfg Config,
) *UseCase {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = DefaultWaitTimeout
	}

	return &UseCase{
		browser:   browser,
		oracle:    oracle,
		extractor: extractor,
		renderer:  renderer,
		user:      user,
		cookies:   cookies,
		logger:    logger,
		heuristic: submit.New(browser, logger, cfg.ClickTimeout),
		cfg:       cfg,
	}
}

// Run opens targetURL and loops until the oracle reports a logged-in page or
// MaxAttempts fill cycles have run. Cookies are saved either way.
func (uc *UseCase) Run(ctx context.Context, targetURL string) (*input.LoginResult, error) {
	domain, err := uc.targetDomain(targetURL)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Starting login",
		"url", targetURL,
		"domain", domain,
		"max_attempts", uc.cfg.MaxAttempts)

	if err := uc.browser.Navigate(ctx, targetURL); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", targetURL, err)
	}

	for attempt := 1; attempt <= uc.cfg.MaxAttempts; attempt++ {
		uc.user.ShowAttempt(ctx, attempt, uc.cfg.MaxAttempts)

		d, forms, err := uc.poll(ctx, attempt)
		if err != nil {
			return nil, err
		}
		if d.LoginSucceeded {
			return uc.finish(ctx, d, domain, attempt-1)
		}

		if err := uc.fill(ctx, d, forms); err != nil {
			return nil, err
		}

		uc.wait(ctx)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	uc.logger.Warn("Attempt limit reached", "max_attempts", uc.cfg.MaxAttempts)
	uc.user.ShowNotice(ctx, "Attempt limit reached, checking the page one last time.")

	d, _, err := uc.poll(ctx, uc.cfg.MaxAttempts)
	if err != nil {
		return nil, err
	}
	return uc.finish(ctx, d, domain, uc.cfg.MaxAttempts)
}

func (uc *UseCase) targetDomain(targetURL string) (string, error) {
	u, err := url.Parse(targetURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidTarget, targetURL)
	}
	if d := strings.TrimPrefix(strings.TrimSpace(uc.cfg.TargetDomain), "."); d != "" {
		return d, nil
	}
	return u.Hostname(), nil
}

func (uc *UseCase) poll(ctx context.Context, attempt int) (*entity.Decision, []entity.ExtractedForm, error) {
	snap, err := uc.browser.Snapshot(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot page: %w", err)
	}

	forms := uc.extractor.Extract(snap.HTML)
	text := uc.renderer.Render(snap.HTML, snap.URL)

	uc.logger.Debug("Polled page",
		"url", snap.URL,
		"title", snap.Title,
		"forms", len(forms),
		"text_len", len(text),
		"screenshot", snap.Screenshot != nil)

	d, err := uc.oracle.Decide(ctx, output.OracleRequest{
		PageURL:     snap.URL,
		PageText:    text,
		Forms:       forms,
		Screenshot:  snap.Screenshot,
		Attempt:     attempt,
		MaxAttempts: uc.cfg.MaxAttempts,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("oracle decision failed: %w", err)
	}

	uc.user.ShowDecision(ctx, d)
	return d, forms, nil
}

func (uc *UseCase) fill(ctx context.Context, d *entity.Decision, forms []entity.ExtractedForm) error {
	inputs := d.RequiredInputs
	if len(inputs) == 0 {
		inputs = credentialInputs(forms)
		if len(inputs) > 0 {
			uc.logger.Info("No inputs requested, asking for credentials", "fields", len(inputs))
		}
	}

	var form *entity.ExtractedForm
	filled := make([]string, 0, len(inputs))
	for _, in := range inputs {
		value, err := uc.ask(ctx, in)
		if err != nil {
			return fmt.Errorf("read value for %s: %w", in.FieldSelector, err)
		}

		if err := uc.browser.Fill(ctx, in.FieldSelector, value); err != nil {
			uc.logger.Warn("Fill failed", "selector", in.FieldSelector, "error", err)
			continue
		}
		uc.logger.Debug("Filled field", "selector", in.FieldSelector, "secret", in.Secret)

		filled = append(filled, in.FieldSelector)
		if form == nil && in.FormIndex < len(forms) {
			form = &forms[in.FormIndex]
		}
	}

	if strategy, ok := uc.heuristic.Submit(ctx, form, d.SubmitSelector, filled); ok {
		uc.logger.Info("Form submitted", "strategy", strategy)
		return nil
	}

	uc.logger.Info("No submit strategy worked, pressing Enter")
	if err := uc.browser.PressEnter(ctx); err != nil {
		uc.logger.Warn("Press Enter failed", "error", err)
	}
	return nil
}

func (uc *UseCase) ask(ctx context.Context, in entity.InputRequest) (string, error) {
	prompt := in.Prompt
	if prompt == "" {
		prompt = "Value for " + in.FieldSelector
	}
	if in.Secret {
		return uc.user.AskSecret(ctx, prompt)
	}
	return uc.user.AskQuestion(ctx, prompt)
}

// wait returns once the page navigates, the network goes idle or
// WaitTimeout passes. A waiter that fails does not count as settled.
func (uc *UseCase) wait(ctx context.Context) {
	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Any success ends the wait. When both page signals fail there is
	// nothing left to wait for but the timer, so that ends it too.
	var failed atomic.Int32
	done := make(chan string, 3)
	race := func(signal string, fn func(context.Context) error) {
		if err := fn(waitCtx); err != nil {
			if waitCtx.Err() == nil {
				uc.logger.Debug("Wait signal failed", "signal", signal, "error", err)
			}
			if failed.Add(1) == 2 {
				done <- "failed"
			}
			return
		}
		done <- signal
	}

	go race("navigation", uc.browser.WaitNavigation)
	go race("idle", uc.browser.WaitIdle)
	go func() {
		timer := time.NewTimer(uc.cfg.WaitTimeout)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-waitCtx.Done():
		}
		done <- "timeout"
	}()

	uc.logger.Debug("Page settled", "signal", <-done)
}

func (uc *UseCase) finish(ctx context.Context, d *entity.Decision, domain string, attempts int) (*input.LoginResult, error) {
	all, err := uc.browser.Cookies(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}

	cookies := entity.FilterCookies(all, domain)
	path, err := uc.cookies.Save(cookies)
	if err != nil {
		return nil, fmt.Errorf("save cookies: %w", err)
	}

	uc.logger.Info("Saved cookies",
		"path", path,
		"saved", len(cookies),
		"total", len(all),
		"succeeded", d.LoginSucceeded)
	uc.user.ShowNotice(ctx, fmt.Sprintf("Saved %d cookies to %s", len(cookies), path))

	return &input.LoginResult{
		Succeeded:      d.LoginSucceeded,
		Attempts:       attempts,
		CookiesSaved:   len(cookies),
		CookiePath:     path,
		Interpretation: d.Interpretation,
	}, nil
}
