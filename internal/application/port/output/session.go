package output

import (
	"context"

	"browser-automation/internal/domain/entity"
)

// SessionAPIPort is the hosted browser-session service.
type SessionAPIPort interface {
	CreateProfile(ctx context.Context, name string) (*entity.Profile, error)
	CreateBrowser(ctx context.Context, req entity.CreateBrowserRequest) (*entity.BrowserSession, error)
	DeleteBrowser(ctx context.Context, sessionID string) error
}
