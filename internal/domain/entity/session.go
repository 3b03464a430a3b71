package entity

import "time"

type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileRef binds a browser to a profile. With SaveChanges the session state
// is written back to the profile when the browser is deleted.
type ProfileRef struct {
	Name        string `json:"name"`
	SaveChanges bool   `json:"save_changes,omitempty"`
}

type Persistence struct {
	ID string `json:"id"`
}

type CreateBrowserRequest struct {
	Profile        *ProfileRef  `json:"profile,omitempty"`
	Persistence    *Persistence `json:"persistence,omitempty"`
	Stealth        bool         `json:"stealth,omitempty"`
	Headless       bool         `json:"headless,omitempty"`
	TimeoutSeconds int          `json:"timeout_seconds,omitempty"`
}

type BrowserSession struct {
	SessionID       string `json:"session_id"`
	CDPWebSocketURL string `json:"cdp_ws_url"`
	LiveViewURL     string `json:"browser_live_view_url"`
}
