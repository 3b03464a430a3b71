package login

import (
	"context"
	"regexp"
	"sync"

	"browser-automation/internal/application/port/output"
	"browser-automation/internal/domain/entity"
)

type fill struct {
	Selector string
	Value    string
}

type fakeBrowser struct {
	mu sync.Mutex

	snapshot   entity.PageSnapshot
	cookies    []entity.Cookie
	clickable  string
	blockWaits bool
	waitErr    error

	navigated   []string
	fills       []fill
	clicks      []string
	enterPushes int
}

var _ output.BrowserPort = (*fakeBrowser)(nil)

func (b *fakeBrowser) Navigate(_ context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.navigated = append(b.navigated, url)
	return nil
}

func (b *fakeBrowser) Fill(_ context.Context, selector, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fills = append(b.fills, fill{Selector: selector, Value: text})
	return nil
}

func (b *fakeBrowser) PressEnter(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enterPushes++
	return nil
}

func (b *fakeBrowser) Snapshot(context.Context) (*entity.PageSnapshot, error) {
	snap := b.snapshot
	return &snap, nil
}

func (b *fakeBrowser) Screenshot(context.Context) (*entity.Screenshot, error) {
	return nil, nil
}

func (b *fakeBrowser) HasElement(context.Context, string) bool { return false }

func (b *fakeBrowser) WaitVisible(context.Context, string) error { return nil }

func (b *fakeBrowser) Texts(context.Context, string) ([]string, error) { return nil, nil }

func (b *fakeBrowser) WaitNavigation(ctx context.Context) error {
	if b.waitErr != nil {
		return b.waitErr
	}
	if b.blockWaits {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (b *fakeBrowser) WaitIdle(ctx context.Context) error {
	if b.waitErr != nil {
		return b.waitErr
	}
	if b.blockWaits {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (b *fakeBrowser) Cookies(context.Context) ([]entity.Cookie, error) {
	return b.cookies, nil
}

func (b *fakeBrowser) CurrentURL() string { return b.snapshot.URL }

func (b *fakeBrowser) Close() {}

func (b *fakeBrowser) SubmitClosestForm(context.Context, string) (bool, error) {
	return false, nil
}

func (b *fakeBrowser) ClickVisible(_ context.Context, selector string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clicks = append(b.clicks, selector)
	return selector != "" && selector == b.clickable, nil
}

func (b *fakeBrowser) ClickByRole(context.Context, *regexp.Regexp) (bool, error) {
	return false, nil
}

func (b *fakeBrowser) ClickByText(context.Context, string, string) (bool, error) {
	return false, nil
}

func (b *fakeBrowser) PressEnterOn(context.Context, string) (bool, error) {
	return false, nil
}

func (b *fakeBrowser) SubmitFirstRenderedForm(context.Context) (bool, error) {
	return false, nil
}

// fakeOracle replays decisions in order and repeats the last one.
type fakeOracle struct {
	decisions []entity.Decision
	err       error
	requests  []output.OracleRequest
}

func (o *fakeOracle) Decide(_ context.Context, req output.OracleRequest) (*entity.Decision, error) {
	o.requests = append(o.requests, req)
	if o.err != nil {
		return nil, o.err
	}
	i := len(o.requests) - 1
	if i >= len(o.decisions) {
		i = len(o.decisions) - 1
	}
	d := o.decisions[i]
	return &d, nil
}

type fakeExtractor struct {
	forms []entity.ExtractedForm
}

func (e fakeExtractor) Extract(string) []entity.ExtractedForm {
	return e.forms
}

type fakeRenderer struct{}

func (fakeRenderer) Render(markup, _ string) string { return markup }

type fakeUser struct {
	answers  []string
	secrets  []string
	asked    []string
	attempts []int
	notices  []string
}

func (u *fakeUser) AskQuestion(_ context.Context, q string) (string, error) {
	u.asked = append(u.asked, "question:"+q)
	if len(u.answers) == 0 {
		return "", context.Canceled
	}
	a := u.answers[0]
	u.answers = u.answers[1:]
	return a, nil
}

func (u *fakeUser) AskSecret(_ context.Context, q string) (string, error) {
	u.asked = append(u.asked, "secret:"+q)
	if len(u.secrets) == 0 {
		return "", context.Canceled
	}
	s := u.secrets[0]
	u.secrets = u.secrets[1:]
	return s, nil
}

func (u *fakeUser) WaitForUserAction(context.Context, string) error { return nil }

func (u *fakeUser) ShowAttempt(_ context.Context, attempt, _ int) {
	u.attempts = append(u.attempts, attempt)
}

func (u *fakeUser) ShowDecision(context.Context, *entity.Decision) {}

func (u *fakeUser) ShowNotice(_ context.Context, msg string) {
	u.notices = append(u.notices, msg)
}

type fakeCookieWriter struct {
	saved [][]entity.Cookie
}

func (w *fakeCookieWriter) Save(cookies []entity.Cookie) (string, error) {
	w.saved = append(w.saved, cookies)
	return "/tmp/cookies.json", nil
}
