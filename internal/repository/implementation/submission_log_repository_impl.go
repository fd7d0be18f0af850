package implementation

import (
	"context"

	"infoex-agent-service/internal/entity"
	"infoex-agent-service/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmissionLogRepositoryImpl struct {
	db *gorm.DB
}

func NewSubmissionLogRepository(db *gorm.DB) contract.SubmissionLogRepository {
	return &SubmissionLogRepositoryImpl{db: db}
}

func (r *SubmissionLogRepositoryImpl) Create(ctx context.Context, log *entity.SubmissionLog) error {
	if log.Id == uuid.Nil {
		log.Id = uuid.New()
	}
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *SubmissionLogRepositoryImpl) FindBySessionID(ctx context.Context, sessionID string) ([]*entity.SubmissionLog, error) {
	var logs []*entity.SubmissionLog
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
