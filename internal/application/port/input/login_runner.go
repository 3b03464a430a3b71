package input

import "context"

type LoginResult struct {
	Succeeded      bool
	Attempts       int
	CookiesSaved   int
	CookiePath     string
	Interpretation string
}

type LoginRunner interface {
	Run(ctx context.Context, targetURL string) (*LoginResult, error)
}
