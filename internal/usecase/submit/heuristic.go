// Package submit tries, in a fixed priority order, every way a login form
// can be submitted, and stops at the first one that works.
package submit

import (
	"context"
	"regexp"
	"time"

	"browser-automation/internal/application/port/output"
	"browser-automation/internal/domain/entity"
)

type Strategy string

const (
	StrategyNone           Strategy = ""
	StrategyClosestForm    Strategy = "closest_form"
	StrategyOracleSelector Strategy = "oracle_selector"
	StrategyFormCandidate  Strategy = "form_candidate"
	StrategyRole           Strategy = "role"
	StrategyText           Strategy = "text"
	StrategyEnterOnField   Strategy = "enter_on_field"
	StrategyRenderedForm   Strategy = "rendered_form"
)

const DefaultClickTimeout = 3 * time.Second

var rolePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)continue`),
	regexp.MustCompile(`(?i)sign\s*in`),
	regexp.MustCompile(`(?i)next`),
	regexp.MustCompile(`(?i)submit`),
	regexp.MustCompile(`(?i)log\s*in`),
}

var buttonTexts = []string{"Continue", "Sign in", "Next", "Submit", "Log in"}

type Heuristic struct {
	target       output.SubmitTarget
	logger       output.LoggerPort
	clickTimeout time.Duration
}

func New(target output.SubmitTarget, logger output.LoggerPort, clickTimeout time.Duration) *Heuristic {
	if clickTimeout <= 0 {
		clickTimeout = DefaultClickTimeout
	}
	return &Heuristic{
		target:       target,
		logger:       logger,
		clickTimeout: clickTimeout,
	}
}

// Submit runs the fallback chain and returns the strategy that worked, or
// false once every strategy has failed. Failures are logged, never returned.
// form and oracleSelector may be empty; filled lists the selectors just
// filled, in order.
func (h *Heuristic) Submit(ctx context.Context, form *entity.ExtractedForm, oracleSelector string, filled []string) (Strategy, bool) {
	lastFilled := ""
	if len(filled) > 0 {
		lastFilled = filled[len(filled)-1]
	}

	if lastFilled != "" && h.try(ctx, StrategyClosestForm, lastFilled, func(ctx context.Context) (bool, error) {
		return h.target.SubmitClosestForm(ctx, lastFilled)
	}) {
		return StrategyClosestForm, true
	}

	if oracleSelector != "" && h.try(ctx, StrategyOracleSelector, oracleSelector, func(ctx context.Context) (bool, error) {
		return h.target.ClickVisible(ctx, oracleSelector)
	}) {
		return StrategyOracleSelector, true
	}

	if form != nil {
		for _, sel := range form.SubmitSelectors {
			sel := sel
			if h.try(ctx, StrategyFormCandidate, sel, func(ctx context.Context) (bool, error) {
				return h.target.ClickVisible(ctx, sel)
			}) {
				return StrategyFormCandidate, true
			}
		}
	}

	for _, pattern := range rolePatterns {
		pattern := pattern
		if h.try(ctx, StrategyRole, pattern.String(), func(ctx context.Context) (bool, error) {
			return h.target.ClickByRole(ctx, pattern)
		}) {
			return StrategyRole, true
		}
	}

	for _, text := range buttonTexts {
		text := text
		if h.try(ctx, StrategyText, text, func(ctx context.Context) (bool, error) {
			return h.target.ClickByText(ctx, "button", text)
		}) {
			return StrategyText, true
		}
	}

	if lastFilled != "" && h.try(ctx, StrategyEnterOnField, lastFilled, func(ctx context.Context) (bool, error) {
		return h.target.PressEnterOn(ctx, lastFilled)
	}) {
		return StrategyEnterOnField, true
	}

	if h.try(ctx, StrategyRenderedForm, "", h.target.SubmitFirstRenderedForm) {
		return StrategyRenderedForm, true
	}

	h.logger.Debug("All submit strategies failed", "filled", len(filled))
	return StrategyNone, false
}

// try bounds one attempt by the click timeout and reports success.
func (h *Heuristic) try(ctx context.Context, strategy Strategy, arg string, attempt func(context.Context) (bool, error)) bool {
	if ctx.Err() != nil {
		return false
	}

	attemptCtx, cancel := context.WithTimeout(ctx, h.clickTimeout)
	defer cancel()

	ok, err := attempt(attemptCtx)
	if err != nil {
		h.logger.Debug("Submit strategy failed", "strategy", strategy, "arg", arg, "error", err)
		return false
	}
	if !ok {
		h.logger.Debug("Submit strategy found nothing", "strategy", strategy, "arg", arg)
		return false
	}

	h.logger.Debug("Submit strategy succeeded", "strategy", strategy, "arg", arg)
	return true
}
