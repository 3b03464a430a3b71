package search

import (
	"context"
	"regexp"
	"testing"

	"browser-automation/internal/domain/entity"
	"browser-automation/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBrowser struct {
	url        string
	hasInput   bool
	inputAfter bool
	results    []string

	navigated []string
	fills     map[string]string
	entered   int
	waited    []string
}

func (b *fakeBrowser) Navigate(_ context.Context, url string) error {
	b.navigated = append(b.navigated, url)
	b.url = url
	b.hasInput = b.inputAfter
	return nil
}

func (b *fakeBrowser) HasElement(_ context.Context, selector string) bool {
	return selector == SearchInputSelector && b.hasInput
}

func (b *fakeBrowser) CurrentURL() string { return b.url }

func (b *fakeBrowser) Fill(_ context.Context, selector, text string) error {
	if b.fills == nil {
		b.fills = map[string]string{}
	}
	b.fills[selector] = text
	return nil
}

func (b *fakeBrowser) PressEnter(context.Context) error {
	b.entered++
	return nil
}

func (b *fakeBrowser) WaitVisible(_ context.Context, selector string) error {
	b.waited = append(b.waited, selector)
	return nil
}

func (b *fakeBrowser) Texts(context.Context, string) ([]string, error) { return b.results, nil }

func (b *fakeBrowser) Snapshot(context.Context) (*entity.PageSnapshot, error) { return nil, nil }

func (b *fakeBrowser) Screenshot(context.Context) (*entity.Screenshot, error) { return nil, nil }

func (b *fakeBrowser) WaitNavigation(context.Context) error { return nil }

func (b *fakeBrowser) WaitIdle(context.Context) error { return nil }

func (b *fakeBrowser) Cookies(context.Context) ([]entity.Cookie, error) { return nil, nil }

func (b *fakeBrowser) Close() {}

func (b *fakeBrowser) SubmitClosestForm(context.Context, string) (bool, error) { return false, nil }

func (b *fakeBrowser) ClickVisible(context.Context, string) (bool, error) { return false, nil }

func (b *fakeBrowser) ClickByRole(context.Context, *regexp.Regexp) (bool, error) { return false, nil }

func (b *fakeBrowser) ClickByText(context.Context, string, string) (bool, error) { return false, nil }

func (b *fakeBrowser) PressEnterOn(context.Context, string) (bool, error) { return false, nil }

func (b *fakeBrowser) SubmitFirstRenderedForm(context.Context) (bool, error) { return false, nil }

func TestSearch_NavigatesFromBlankPage(t *testing.T) {
	b := &fakeBrowser{url: "about:blank", inputAfter: true, results: []string{"Go", "Rod"}}

	got, err := New(b, logger.NewNop()).Search(context.Background(), "  golang rod ")
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "Rod"}, got)
	assert.Equal(t, []string{HomeURL}, b.navigated)
	assert.Equal(t, "golang rod", b.fills[SearchInputSelector])
	assert.Equal(t, 1, b.entered)
	assert.Equal(t, []string{ResultSelector}, b.waited)
}

func TestSearch_StaysOnGooglePage(t *testing.T) {
	b := &fakeBrowser{url: "https://www.google.com/search?q=old", hasInput: true}

	_, err := New(b, logger.NewNop()).Search(context.Background(), "new")
	require.NoError(t, err)

	assert.Empty(t, b.navigated)
}

func TestSearch_InputMissing(t *testing.T) {
	b := &fakeBrowser{url: "about:blank", inputAfter: false}

	_, err := New(b, logger.NewNop()).Search(context.Background(), "q")

	assert.ErrorIs(t, err, ErrSearchInputMissing)
	assert.Empty(t, b.fills)
}

func TestSearch_EmptyQuery(t *testing.T) {
	b := &fakeBrowser{}

	_, err := New(b, logger.NewNop()).Search(context.Background(), " \t")

	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Empty(t, b.navigated)
}
