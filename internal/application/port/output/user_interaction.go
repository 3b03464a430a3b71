package output

import (
	"context"

	"browser-automation/internal/domain/entity"
)

type UserInteractionPort interface {
	AskQuestion(ctx context.Context, question string) (string, error)
	AskSecret(ctx context.Context, question string) (string, error)
	WaitForUserAction(ctx context.Context, message string) error

	ShowAttempt(ctx context.Context, attempt, maxAttempts int)
	ShowDecision(ctx context.Context, decision *entity.Decision)
	ShowNotice(ctx context.Context, message string)
}
