package output

import (
	"context"
	"regexp"

	"browser-automation/internal/domain/entity"
)

// SubmitTarget is the set of page operations the submission heuristic
// chooses from. Every method reports whether it acted; a false result with a
// nil error means nothing suitable was found.
type SubmitTarget interface {
	SubmitClosestForm(ctx context.Context, fieldSelector string) (bool, error)
	ClickVisible(ctx context.Context, selector string) (bool, error)
	ClickByRole(ctx context.Context, name *regexp.Regexp) (bool, error)
	ClickByText(ctx context.Context, scope, text string) (bool, error)
	PressEnterOn(ctx context.Context, selector string) (bool, error)
	SubmitFirstRenderedForm(ctx context.Context) (bool, error)
}

type BrowserPort interface {
	SubmitTarget

	Navigate(ctx context.Context, url string) error
	Fill(ctx context.Context, selector, text string) error
	PressEnter(ctx context.Context) error

	Snapshot(ctx context.Context) (*entity.PageSnapshot, error)
	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	HasElement(ctx context.Context, selector string) bool
	WaitVisible(ctx context.Context, selector string) error
	Texts(ctx context.Context, selector string) ([]string, error)

	WaitNavigation(ctx context.Context) error
	WaitIdle(ctx context.Context) error

	Cookies(ctx context.Context) ([]entity.Cookie, error)
	CurrentURL() string
	Close()
}

// BrowserConnector attaches to a remote browser created by the session API.
type BrowserConnector interface {
	Connect(ctx context.Context, session *entity.BrowserSession) (BrowserPort, error)
}
