package input

import "context"

type ProvisionRequest struct {
	PersistenceID    string
	LoginURL         string
	LoggedInSelector string
}

type UnwatchRequest struct {
	Username string
	URL      string
}

// ActionOutput is what the provisioning actions report back.
type ActionOutput struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	LiveViewURL string `json:"liveViewUrl,omitempty"`
}

type Provisioner interface {
	Provision(ctx context.Context, req ProvisionRequest) (*ActionOutput, error)
	Unwatch(ctx context.Context, req UnwatchRequest) (*ActionOutput, error)
}
