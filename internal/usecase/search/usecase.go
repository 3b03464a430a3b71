// Package search runs a Google query in an already opened browser and
// returns the text of each organic result.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"browser-automation/internal/application/port/input"
	"browser-automation/internal/application/port/output"
)

var _ input.Searcher = (*UseCase)(nil)

const (
	HomeURL             = "https://www.google.com"
	SearchInputSelector = `textarea[aria-label="Search"]`
	ResultSelector      = "div.g"

	DefaultNavTimeout     = 10 * time.Second
	DefaultResultsTimeout = 15 * time.Second
)

var (
	ErrEmptyQuery         = errors.New("query is required")
	ErrSearchInputMissing = errors.New("could not find search textarea on Google homepage")
)

// PersistenceID names the remote browser shared by every search.
const PersistenceID = "google"

type UseCase struct {
	browser        output.BrowserPort
	logger         output.LoggerPort
	navTimeout     time.Duration
	resultsTimeout time.Duration
}

func New(browser output.BrowserPort, logger output.LoggerPort) *UseCase {
	return &UseCase{
		browser:        browser,
		logger:         logger,
		navTimeout:     DefaultNavTimeout,
		resultsTimeout: DefaultResultsTimeout,
	}
}

func (uc *UseCase) Search(ctx context.Context, query string) ([]string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	uc.logger.Info("Searching", "query", q)

	if !uc.browser.HasElement(ctx, SearchInputSelector) || !strings.Contains(uc.browser.CurrentURL(), "google.com") {
		navCtx, cancel := context.WithTimeout(ctx, uc.navTimeout)
		err := uc.browser.Navigate(navCtx, HomeURL)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("navigate to %s: %w", HomeURL, err)
		}
		uc.logger.Debug("Navigated to Google homepage")

		if !uc.browser.HasElement(ctx, SearchInputSelector) {
			return nil, ErrSearchInputMissing
		}
	}

	if err := uc.browser.Fill(ctx, SearchInputSelector, q); err != nil {
		return nil, fmt.Errorf("type query: %w", err)
	}
	if err := uc.browser.PressEnter(ctx); err != nil {
		return nil, fmt.Errorf("submit query: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, uc.resultsTimeout)
	defer cancel()
	if err := uc.browser.WaitVisible(waitCtx, ResultSelector); err != nil {
		return nil, fmt.Errorf("wait for results: %w", err)
	}

	results, err := uc.browser.Texts(ctx, ResultSelector)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}

	uc.logger.Info("Search finished", "query", q, "results", len(results))
	return results, nil
}
