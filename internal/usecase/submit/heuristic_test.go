package submit

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"browser-automation/internal/domain/entity"
	"browser-automation/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTarget records every call and succeeds only for the configured key.
type fakeTarget struct {
	succeedOn string
	failWith  error
	block     bool
	calls     []string
}

func (f *fakeTarget) act(ctx context.Context, key string) (bool, error) {
	f.calls = append(f.calls, key)
	if f.block {
		<-ctx.Done()
		return false, ctx.Err()
	}
	if key == f.succeedOn {
		return true, nil
	}
	return false, f.failWith
}

func (f *fakeTarget) SubmitClosestForm(ctx context.Context, fieldSelector string) (bool, error) {
	return f.act(ctx, "closest:"+fieldSelector)
}

func (f *fakeTarget) ClickVisible(ctx context.Context, selector string) (bool, error) {
	return f.act(ctx, "click:"+selector)
}

func (f *fakeTarget) ClickByRole(ctx context.Context, name *regexp.Regexp) (bool, error) {
	return f.act(ctx, "role:"+name.String())
}

func (f *fakeTarget) ClickByText(ctx context.Context, scope, text string) (bool, error) {
	return f.act(ctx, "text:"+text)
}

func (f *fakeTarget) PressEnterOn(ctx context.Context, selector string) (bool, error) {
	return f.act(ctx, "enter:"+selector)
}

func (f *fakeTarget) SubmitFirstRenderedForm(ctx context.Context) (bool, error) {
	return f.act(ctx, "rendered")
}

var testForm = &entity.ExtractedForm{
	SubmitSelectors: []string{"#go", `button[type="submit"]`},
}

func allSteps() []string {
	return []string{
		"closest:#password",
		"click:#oracle",
		"click:#go",
		`click:button[type="submit"]`,
		"role:(?i)continue",
		`role:(?i)sign\s*in`,
		"role:(?i)next",
		"role:(?i)submit",
		`role:(?i)log\s*in`,
		"text:Continue",
		"text:Sign in",
		"text:Next",
		"text:Submit",
		"text:Log in",
		"enter:#password",
		"rendered",
	}
}

func TestSubmit_ShortCircuits(t *testing.T) {
	steps := allSteps()
	strategies := map[string]Strategy{
		"closest:#password":           StrategyClosestForm,
		"click:#oracle":               StrategyOracleSelector,
		"click:#go":                   StrategyFormCandidate,
		`click:button[type="submit"]`: StrategyFormCandidate,
		`role:(?i)sign\s*in`:          StrategyRole,
		"text:Next":                   StrategyText,
		"enter:#password":             StrategyEnterOnField,
		"rendered":                    StrategyRenderedForm,
	}

	for i, step := range steps {
		want, ok := strategies[step]
		if !ok {
			continue
		}
		t.Run(step, func(t *testing.T) {
			target := &fakeTarget{succeedOn: step}
			h := New(target, logger.NewNop(), time.Second)

			got, submitted := h.Submit(context.Background(), testForm, "#oracle", []string{"#email", "#password"})

			require.True(t, submitted)
			assert.Equal(t, want, got)
			assert.Equal(t, steps[:i+1], target.calls, "no step may run after the first success")
		})
	}
}

func TestSubmit_AllFail(t *testing.T) {
	target := &fakeTarget{failWith: errors.New("element not interactable")}
	h := New(target, logger.NewNop(), time.Second)

	got, submitted := h.Submit(context.Background(), testForm, "#oracle", []string{"#email", "#password"})

	assert.False(t, submitted)
	assert.Equal(t, StrategyNone, got)
	assert.Equal(t, allSteps(), target.calls)
}

func TestSubmit_EmptyPage(t *testing.T) {
	target := &fakeTarget{}
	h := New(target, logger.NewNop(), time.Second)

	var got Strategy
	var submitted bool
	assert.NotPanics(t, func() {
		got, submitted = h.Submit(context.Background(), nil, "", nil)
	})

	assert.False(t, submitted)
	assert.Equal(t, StrategyNone, got)
	// Without a filled field or form only the page-wide steps run.
	assert.Len(t, target.calls, len(rolePatterns)+len(buttonTexts)+1)
	assert.Equal(t, "rendered", target.calls[len(target.calls)-1])
}

func TestSubmit_ClickTimeoutBoundsEachStep(t *testing.T) {
	target := &fakeTarget{block: true}
	h := New(target, logger.NewNop(), 5*time.Millisecond)

	start := time.Now()
	_, submitted := h.Submit(context.Background(), nil, "", []string{"#otp"})

	assert.False(t, submitted)
	assert.Len(t, target.calls, 1+len(rolePatterns)+len(buttonTexts)+2)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSubmit_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	target := &fakeTarget{succeedOn: "rendered"}
	_, submitted := New(target, logger.NewNop(), time.Second).Submit(ctx, testForm, "", []string{"#a"})

	assert.False(t, submitted)
	assert.Empty(t, target.calls)
}

func TestNew_DefaultClickTimeout(t *testing.T) {
	h := New(&fakeTarget{}, logger.NewNop(), 0)
	assert.Equal(t, DefaultClickTimeout, h.clickTimeout)
}
