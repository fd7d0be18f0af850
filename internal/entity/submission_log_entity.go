package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SubmissionLog is the audit record for one InfoEx submission attempt.
type SubmissionLog struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID       string    `gorm:"index"`
	ObservationType string
	Success         bool
	SubmittedUUID   string
	Error           string
	Payload         datatypes.JSON
	CreatedAt       time.Time
}

func (SubmissionLog) TableName() string {
	return "submission_logs"
}
