// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"infoex-agent-service/internal/dto"
	"infoex-agent-service/internal/entity"
	"infoex-agent-service/internal/pkg/mailer"
	"infoex-agent-service/internal/repository/contract"
	"infoex-agent-service/pkg/events"
	pktNats "infoex-agent-service/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains submission events off the internal bus: it writes
// the audit log, alerts on failures, and mirrors the event to NATS for
// external workflows. The audit repository and NATS publisher are optional.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	logRepo        contract.SubmissionLogRepository
	alertMailer    mailer.IAlertMailer
	eventPublisher *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	logRepo contract.SubmissionLogRepository,
	alertMailer mailer.IAlertMailer,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		logRepo:        logRepo,
		alertMailer:    alertMailer,
		eventPublisher: eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var event dto.SubmissionEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		log.Printf("[ERROR] Failed to unmarshal submission event: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing submission event for session %s (%s, success=%v)",
		event.SessionID, event.ObservationType, event.Success)

	if cs.logRepo != nil {
		payloadJSON, _ := json.Marshal(event.Payload)
		record := &entity.SubmissionLog{
			Id:              uuid.New(),
			SessionID:       event.SessionID,
			ObservationType: event.ObservationType,
			Success:         event.Success,
			SubmittedUUID:   event.SubmittedUUID,
			Error:           event.Error,
			Payload:         payloadJSON,
			CreatedAt:       event.OccurredAt,
		}
		if err := cs.logRepo.Create(ctx, record); err != nil {
			log.Printf("[ERROR] Failed to persist submission log: %v", err)
			msg.Nack()
			return
		}
	}

	if !event.Success && cs.alertMailer != nil {
		errs := strings.Split(event.Error, "; ")
		if err := cs.alertMailer.SendSubmissionFailure(event.SessionID, event.ObservationType, errs); err != nil {
			log.Printf("[WARN] Failed to send failure alert: %v", err)
		}
	}

	if cs.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "INFOEX_SUBMISSION",
			Data: map[string]interface{}{
				"session_id":       event.SessionID,
				"observation_type": event.ObservationType,
				"success":          event.Success,
				"submitted_uuid":   event.SubmittedUUID,
				"error":            event.Error,
			},
			OccurredAt: event.OccurredAt,
		}
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish NATS event: %v", err)
		}
	}

	msg.Ack()
}
