// FILE: internal/service/submission_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"infoex-agent-service/internal/dto"
	"infoex-agent-service/internal/pkg/logger"
	"infoex-agent-service/internal/repository/contract"
	"infoex-agent-service/pkg/agent"
	"infoex-agent-service/pkg/infoex"
	"infoex-agent-service/pkg/store"
)

type ISubmissionService interface {
	// SubmitTypes builds and submits the named observation types from a
	// session, updating the session's payload records as it goes. The
	// session is saved once at the end regardless of partial failures.
	SubmitTypes(ctx context.Context, session *store.Session, types []string) (dto.SubmissionResponse, error)
}

type submissionService struct {
	sessionRepo contract.SessionRepository
	client      infoex.IClient
	builder     *infoex.Builder
	tracker     *agent.Tracker
	publisher   IPublisherService
	log         logger.ILogger
}

func NewSubmissionService(
	sessionRepo contract.SessionRepository,
	client infoex.IClient,
	builder *infoex.Builder,
	publisher IPublisherService,
	log logger.ILogger,
) ISubmissionService {
	return &submissionService{
		sessionRepo: sessionRepo,
		client:      client,
		builder:     builder,
		tracker:     agent.NewTracker(),
		publisher:   publisher,
		log:         log,
	}
}

func (s *submissionService) SubmitTypes(ctx context.Context, session *store.Session, types []string) (dto.SubmissionResponse, error) {
	var (
		details  []dto.SubmissionDetail
		messages []string
	)
	overallSuccess := true

	for _, obsType := range types {
		if _, ok := session.Payloads[obsType]; !ok {
			messages = append(messages, fmt.Sprintf("%s: Not initialized in session", obsType))
			overallSuccess = false
			continue
		}

		payload, buildErrs := s.builder.Build(obsType, session)
		if len(buildErrs) > 0 {
			s.tracker.MarkErrored(session, obsType, buildErrs)
			details = append(details, dto.SubmissionDetail{
				ObservationType: obsType,
				Success:         false,
				Errors:          buildErrs,
			})
			messages = append(messages, fmt.Sprintf("%s: Validation errors", obsType))
			overallSuccess = false
			s.publishEvent(ctx, session.SessionID, obsType, false, "", strings.Join(buildErrs, "; "), nil)
			continue
		}

		result, err := s.client.Submit(ctx, obsType, payload)
		if err != nil {
			// A failed submission leaves the record ready so the
			// payload can be corrected and resubmitted.
			errText := submissionErrorText(err)
			s.tracker.MarkErrored(session, obsType, []string{errText})
			details = append(details, dto.SubmissionDetail{
				ObservationType: obsType,
				Success:         false,
				Errors:          []string{errText},
			})
			messages = append(messages, fmt.Sprintf("%s: Failed - %s", obsType, errText))
			overallSuccess = false
			s.publishEvent(ctx, session.SessionID, obsType, false, "", errText, payload)
			continue
		}

		s.tracker.MarkSubmitted(session, obsType, result.UUID)
		details = append(details, dto.SubmissionDetail{
			ObservationType: obsType,
			Success:         true,
			UUID:            result.UUID,
		})
		messages = append(messages, fmt.Sprintf("%s: Submitted (UUID: %s)", obsType, result.UUID))
		s.publishEvent(ctx, session.SessionID, obsType, true, result.UUID, "", payload)
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		s.log.Error("submission_service", "failed to save session after submission", map[string]interface{}{
			"session_id": session.SessionID,
			"error":      err.Error(),
		})
	}

	summary := fmt.Sprintf("Processed %d submissions. ", len(details))
	if overallSuccess {
		summary += "All successful!"
	} else {
		failed := 0
		for _, d := range details {
			if !d.Success {
				failed++
			}
		}
		summary += fmt.Sprintf("%d failed.", failed)
	}

	s.log.Info("submission_service", "submission complete", map[string]interface{}{
		"session_id": session.SessionID,
		"total":      len(details),
		"success":    overallSuccess,
	})

	return dto.SubmissionResponse{
		Success:     overallSuccess,
		Message:     summary + " Details: " + strings.Join(messages, " | "),
		Submissions: details,
	}, nil
}

// publishEvent hands the attempt to the audit consumer. Bus failures are
// logged and swallowed; auditing never blocks a submission.
func (s *submissionService) publishEvent(ctx context.Context, sessionID, obsType string, success bool, uuid, errText string, payload map[string]any) {
	event := dto.SubmissionEvent{
		SessionID:       sessionID,
		ObservationType: obsType,
		Success:         success,
		SubmittedUUID:   uuid,
		Error:           errText,
		Payload:         payload,
		OccurredAt:      time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.log.Error("submission_service", "failed to marshal submission event", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return
	}

	if err := s.publisher.Publish(ctx, data); err != nil {
		s.log.Warn("submission_service", "failed to publish submission event", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

func submissionErrorText(err error) string {
	var subErr *infoex.SubmissionError
	if errors.As(err, &subErr) {
		if len(subErr.FieldErrors) > 0 {
			parts := make([]string, 0, len(subErr.FieldErrors))
			for _, fe := range subErr.FieldErrors {
				parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Detail))
			}
			return subErr.Error() + " (" + strings.Join(parts, ", ") + ")"
		}
		return subErr.Error()
	}
	return err.Error()
}
