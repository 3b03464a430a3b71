// Package provision sets up persistent remote browsers and runs actions in
// them once a human has logged in through the live view.
package provision

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"browser-automation/internal/application/port/input"
	"browser-automation/internal/application/port/output"
	"browser-automation/internal/domain/entity"
)

var _ input.Provisioner = (*UseCase)(nil)

const (
	GitHubLoginURL       = "https://github.com/login"
	GitHubAvatarSelector = `header img[class*="avatar"]`

	// ParticipatingText labels the "participating and @mentions" choice of
	// GitHub's watch menu.
	ParticipatingText = "Only receive notifications from this repository when participating or @mentioned."
)

const (
	DefaultLoginTimeout  = 120 * time.Second
	DefaultPollInterval  = time.Second
	DefaultNavTimeout    = 10 * time.Second
	DefaultCheckTimeout  = time.Second
	DefaultChoiceTimeout = 3 * time.Second
)

var (
	ErrEmptyUsername      = errors.New("username is required")
	ErrEmptyURL           = errors.New("URL is required")
	ErrEmptyPersistenceID = errors.New("persistence id is required")
)

type Config struct {
	LoginTimeout  time.Duration
	PollInterval  time.Duration
	NavTimeout    time.Duration
	CheckTimeout  time.Duration
	ChoiceTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		LoginTimeout:  DefaultLoginTimeout,
		PollInterval:  DefaultPollInterval,
		NavTimeout:    DefaultNavTimeout,
		CheckTimeout:  DefaultCheckTimeout,
		ChoiceTimeout: DefaultChoiceTimeout,
	}
}

type UseCase struct {
	api       output.SessionAPIPort
	connector output.BrowserConnector
	user      output.UserInteractionPort
	logger    output.LoggerPort
	cfg       Config
}

func New(
	api output.SessionAPIPort,
	connector output.BrowserConnector,
	user output.UserInteractionPort,
	logger output.LoggerPort,
	cfg Config,
) *UseCase {
	def := DefaultConfig()
	if cfg.LoginTimeout <= 0 {
		cfg.LoginTimeout = def.LoginTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = def.NavTimeout
	}
	if cfg.CheckTimeout <= 0 {
		cfg.CheckTimeout = def.CheckTimeout
	}
	if cfg.ChoiceTimeout <= 0 {
		cfg.ChoiceTimeout = def.ChoiceTimeout
	}

	return &UseCase{
		api:       api,
		connector: connector,
		user:      user,
		logger:    logger,
		cfg:       cfg,
	}
}

func GitHubPersistenceID(username string) string {
	return "github-" + username
}

// CleanupURL adds https:// when the scheme is missing.
func CleanupURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid URL %q", raw)
	}
	return raw, nil
}

func CleanupUsername(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrEmptyUsername
	}
	return name, nil
}

// Provision creates (or reuses) the persistent browser and reports whether it
// is already logged in. The browser is left running for the live view.
func (uc *UseCase) Provision(ctx context.Context, req input.ProvisionRequest) (*input.ActionOutput, error) {
	id := strings.TrimSpace(req.PersistenceID)
	if id == "" {
		return nil, ErrEmptyPersistenceID
	}
	loginURL, err := CleanupURL(req.LoginURL)
	if err != nil {
		return nil, err
	}

	sess, page, err := uc.open(ctx, id)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	navCtx, cancel := context.WithTimeout(ctx, uc.cfg.NavTimeout)
	err = page.Navigate(navCtx, loginURL)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", loginURL, err)
	}
	uc.logger.Info("Navigated to login page", "url", loginURL)

	if uc.isLoggedIn(ctx, page, req.LoggedInSelector) {
		return &input.ActionOutput{
			Success: true,
			Message: fmt.Sprintf("Provisioned browser for %s. It's already logged in", id),
		}, nil
	}

	return &input.ActionOutput{
		Success:     true,
		Message:     fmt.Sprintf("Provisioned browser for %s. Please go log in here: %s", id, sess.LiveViewURL),
		LiveViewURL: sess.LiveViewURL,
	}, nil
}

// Unwatch switches a GitHub repository to participating-only notifications.
func (uc *UseCase) Unwatch(ctx context.Context, req input.UnwatchRequest) (*input.ActionOutput, error) {
	repoURL, err := CleanupURL(req.URL)
	if err != nil {
		return nil, err
	}
	username, err := CleanupUsername(req.Username)
	if err != nil {
		return nil, err
	}

	sess, page, err := uc.open(ctx, GitHubPersistenceID(username))
	if err != nil {
		return nil, err
	}
	defer page.Close()

	uc.user.ShowNotice(ctx, "Live view url: "+sess.LiveViewURL)

	if err := page.Navigate(ctx, repoURL); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", repoURL, err)
	}

	loggedIn, err := uc.WaitForLogin(ctx, page, GitHubAvatarSelector)
	if err != nil {
		return nil, err
	}
	if !loggedIn {
		return &input.ActionOutput{
			Success:     false,
			Message:     "Login not detected within timeout.",
			LiveViewURL: sess.LiveViewURL,
		}, nil
	}

	if err := page.Navigate(ctx, repoURL); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", repoURL, err)
	}

	found, err := page.ClickByText(ctx, "span", "Unwatch")
	if err != nil {
		return nil, fmt.Errorf("open watch menu: %w", err)
	}
	if !found {
		uc.logger.Info("No Unwatch control, repository already unwatched", "url", repoURL)
		return &input.ActionOutput{Success: true, Message: "Repo already unwatched: " + repoURL}, nil
	}

	choiceCtx, cancel := context.WithTimeout(ctx, uc.cfg.ChoiceTimeout)
	defer cancel()
	ok, err := page.ClickByText(choiceCtx, "span", ParticipatingText)
	if err != nil {
		return nil, fmt.Errorf("choose participating notifications: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("choose participating notifications: %w", entity.ErrNotFound)
	}

	uc.logger.Info("Unwatched repository", "url", repoURL)
	return &input.ActionOutput{Success: true, Message: "Unwatched repo: " + repoURL}, nil
}

// WaitForLogin polls for selector until LoginTimeout. The first miss asks the
// human to log in through the live view.
func (uc *UseCase) WaitForLogin(ctx context.Context, page output.BrowserPort, selector string) (bool, error) {
	deadline := time.Now().Add(uc.cfg.LoginTimeout)
	prompted := false

	for time.Now().Before(deadline) {
		if uc.isLoggedIn(ctx, page, selector) {
			uc.logger.Info("Detected login")
			return true, nil
		}
		if !prompted {
			uc.user.ShowNotice(ctx, "Go log in, please!")
			prompted = true
		}

		timer := time.NewTimer(uc.cfg.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-timer.C:
		}
	}

	uc.logger.Warn("Login not detected within timeout", "timeout", uc.cfg.LoginTimeout)
	return false, nil
}

func (uc *UseCase) isLoggedIn(ctx context.Context, page output.BrowserPort, selector string) bool {
	if selector == "" {
		return false
	}
	checkCtx, cancel := context.WithTimeout(ctx, uc.cfg.CheckTimeout)
	defer cancel()
	return page.WaitVisible(checkCtx, selector) == nil
}

func (uc *UseCase) open(ctx context.Context, persistenceID string) (*entity.BrowserSession, output.BrowserPort, error) {
	sess, err := uc.api.CreateBrowser(ctx, entity.CreateBrowserRequest{
		Persistence: &entity.Persistence{ID: persistenceID},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create browser: %w", err)
	}
	uc.logger.Info("Browser ready",
		"persistence_id", persistenceID,
		"session_id", sess.SessionID,
		"live_view_url", sess.LiveViewURL)

	page, err := uc.connector.Connect(ctx, sess)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to browser %s: %w", sess.SessionID, err)
	}
	return sess, page, nil
}
