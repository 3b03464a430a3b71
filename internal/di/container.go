package di

import (
	"context"
	"fmt"

	"browser-automation/internal/application/port/input"
	"browser-automation/internal/application/port/output"
	"browser-automation/internal/domain/entity"
	"browser-automation/internal/infrastructure/browser/rod"
	"browser-automation/internal/infrastructure/config"
	"browser-automation/internal/infrastructure/cookiefile"
	"browser-automation/internal/infrastructure/kernel"
	"browser-automation/internal/infrastructure/llm"
	"browser-automation/internal/infrastructure/logger"
	"browser-automation/internal/infrastructure/markup"
	"browser-automation/internal/infrastructure/userinteraction"
	"browser-automation/internal/usecase/login"
	"browser-automation/internal/usecase/profile"
	"browser-automation/internal/usecase/provision"
	"browser-automation/internal/usecase/search"
)

// Container builds the adapters one command needs. Everything it opens is
// released by Close, in reverse order.
type Container struct {
	Config config.Config
	Logger output.LoggerPort
	User   output.UserInteractionPort

	api     output.SessionAPIPort
	closers []func()
}

func NewContainer(cfg config.Config, name string) (*Container, error) {
	logCfg := logger.DefaultConfig(name)
	logCfg.Dir = cfg.Log.Dir
	logCfg.Level = cfg.Log.Level

	log, err := logger.NewLoggerAdapter(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &Container{
		Config: cfg,
		Logger: log,
		User:   userinteraction.NewConsoleUserInteraction(userinteraction.WithMaskedSecrets(cfg.Login.MaskSecrets)),
	}, nil
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}

func (c *Container) SessionAPI() (output.SessionAPIPort, error) {
	if c.api != nil {
		return c.api, nil
	}
	if err := c.Config.RequireKernel(); err != nil {
		return nil, err
	}

	client, err := kernel.New(kernel.Config{
		BaseURL: c.Config.Kernel.BaseURL,
		APIKey:  c.Config.Kernel.APIKey,
		Logger:  c.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session API client: %w", err)
	}
	c.api = client
	return client, nil
}

func (c *Container) browserConfig() rod.BrowserConfig {
	cfg := rod.DefaultConfig()
	cfg.Headless = c.Config.Browser.Headless
	cfg.Stealth = c.Config.Browser.Stealth
	cfg.Timeout = c.Config.Browser.Timeout
	cfg.Logger = c.Logger
	return cfg
}

// OpenBrowser launches a local Chrome, or with browser.remote creates a
// browser through the session API and connects to it. Remote browsers
// without a persistence id are deleted on Close.
func (c *Container) OpenBrowser(ctx context.Context) (output.BrowserPort, error) {
	if !c.Config.Browser.Remote {
		b, err := rod.NewBrowserAdapter(ctx, c.browserConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create browser: %w", err)
		}
		c.closers = append(c.closers, b.Close)
		return b, nil
	}

	api, err := c.SessionAPI()
	if err != nil {
		return nil, err
	}

	req := entity.CreateBrowserRequest{
		Stealth:  c.Config.Browser.Stealth,
		Headless: c.Config.Browser.Headless,
	}
	if id := c.Config.Browser.PersistenceID; id != "" {
		req.Persistence = &entity.Persistence{ID: id}
	}
	if name := c.Config.Browser.ProfileName; name != "" {
		req.Profile = &entity.ProfileRef{Name: name, SaveChanges: true}
	}

	sess, err := api.CreateBrowser(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote browser: %w", err)
	}
	c.Logger.Info("Remote browser created",
		"session_id", sess.SessionID,
		"live_view_url", sess.LiveViewURL)
	c.User.ShowNotice(ctx, "Live view url: "+sess.LiveViewURL)

	if req.Persistence == nil {
		c.closers = append(c.closers, func() {
			if err := api.DeleteBrowser(context.Background(), sess.SessionID); err != nil {
				c.Logger.Warn("Failed to delete remote browser", "session_id", sess.SessionID, "error", err)
			}
		})
	}

	b, err := rod.NewConnector(c.browserConfig()).Connect(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to remote browser: %w", err)
	}
	c.closers = append(c.closers, b.Close)
	return b, nil
}

func (c *Container) LoginRunner(ctx context.Context) (input.LoginRunner, error) {
	if err := c.Config.RequireOracle(); err != nil {
		return nil, err
	}
	oracle, err := llm.NewOracle(c.Config.Oracle, c.Logger)
	if err != nil {
		return nil, err
	}

	browser, err := c.OpenBrowser(ctx)
	if err != nil {
		return nil, err
	}

	return login.New(
		browser,
		oracle,
		markup.NewFormExtractor(),
		markup.NewTextRenderer(),
		c.User,
		cookiefile.NewWriter(c.Config.Login.CookiePath),
		c.Logger,
		login.Config{
			MaxAttempts:  c.Config.Login.MaxAttempts,
			WaitTimeout:  c.Config.Login.WaitTimeout,
			ClickTimeout: c.Config.Login.ClickTimeout,
			TargetDomain: c.Config.Login.TargetDomain,
		},
	), nil
}

func (c *Container) ProfileDemo() (input.ProfileDemo, error) {
	api, err := c.SessionAPI()
	if err != nil {
		return nil, err
	}
	return profile.New(api, c.User, c.Logger), nil
}

func (c *Container) Provisioner() (input.Provisioner, error) {
	api, err := c.SessionAPI()
	if err != nil {
		return nil, err
	}
	return provision.New(api, rod.NewConnector(c.browserConfig()), c.User, c.Logger, provision.DefaultConfig()), nil
}

func (c *Container) Searcher(ctx context.Context) (input.Searcher, error) {
	browser, err := c.OpenBrowser(ctx)
	if err != nil {
		return nil, err
	}
	return search.New(browser, c.Logger), nil
}
