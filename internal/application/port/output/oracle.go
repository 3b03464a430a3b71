package output

import (
	"context"

	"browser-automation/internal/domain/entity"
)

type OracleRequest struct {
	PageURL    string
	PageText   string
	Forms      []entity.ExtractedForm
	Screenshot *entity.Screenshot

	// Attempt is the 1-based poll of the login loop; MaxAttempts its limit.
	Attempt     int
	MaxAttempts int
}

type OraclePort interface {
	Decide(ctx context.Context, req OracleRequest) (*entity.Decision, error)
}
