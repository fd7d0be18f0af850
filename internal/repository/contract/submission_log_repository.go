package contract

import (
	"context"

	"infoex-agent-service/internal/entity"
)

type SubmissionLogRepository interface {
	Create(ctx context.Context, log *entity.SubmissionLog) error
	FindBySessionID(ctx context.Context, sessionID string) ([]*entity.SubmissionLog, error)
}
