// FILE: internal/service/report_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"infoex-agent-service/internal/dto"
	"infoex-agent-service/internal/pkg/logger"
	"infoex-agent-service/internal/repository/contract"
	"infoex-agent-service/internal/repository/implementation"
	"infoex-agent-service/pkg/agent"
	"infoex-agent-service/pkg/store"
)

// ErrSessionNotFound surfaces a missing or expired session to the controller.
var ErrSessionNotFound = implementation.ErrSessionNotFound

type IReportService interface {
	ProcessReport(ctx context.Context, req dto.ProcessReportRequest) (dto.ProcessReportResponse, error)
	Submit(ctx context.Context, req dto.SubmissionRequest) (dto.SubmissionResponse, error)
	Status(ctx context.Context, sessionID string) (dto.SessionStatusResponse, error)
	Clear(ctx context.Context, sessionID string) (dto.MessageResponse, error)
}

type reportService struct {
	sessionRepo contract.SessionRepository
	agent       agent.IAgent
	tracker     *agent.Tracker
	submission  ISubmissionService
	log         logger.ILogger
}

func NewReportService(
	sessionRepo contract.SessionRepository,
	reportAgent agent.IAgent,
	submission ISubmissionService,
	log logger.ILogger,
) IReportService {
	return &reportService{
		sessionRepo: sessionRepo,
		agent:       reportAgent,
		tracker:     agent.NewTracker(),
		submission:  submission,
		log:         log,
	}
}

func (s *reportService) ProcessReport(ctx context.Context, req dto.ProcessReportRequest) (dto.ProcessReportResponse, error) {
	session, err := s.sessionRepo.Get(ctx, req.SessionID)
	if errors.Is(err, ErrSessionNotFound) {
		session = s.newSession(req)
	} else if err != nil {
		return dto.ProcessReportResponse{}, err
	}

	response, err := s.agent.ProcessMessage(ctx, session, req.Message)
	if err != nil {
		return dto.ProcessReportResponse{}, err
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return dto.ProcessReportResponse{}, err
	}

	if req.AutoSubmit && mentionsReadySubmission(response) {
		ready := s.tracker.ReadyTypes(session)
		if len(ready) > 0 {
			s.log.Info("report_service", "auto-submitting ready payloads", map[string]interface{}{
				"session_id":  req.SessionID,
				"ready_types": ready,
			})
			result, err := s.submission.SubmitTypes(ctx, session, ready)
			if err != nil {
				return dto.ProcessReportResponse{}, err
			}

			lines := make([]string, 0, len(result.Submissions))
			for _, sub := range result.Submissions {
				if sub.Success {
					lines = append(lines, fmt.Sprintf("%s: Submitted (UUID: %s)", sub.ObservationType, sub.UUID))
				} else {
					lines = append(lines, fmt.Sprintf("%s: Failed - %s", sub.ObservationType, strings.Join(sub.Errors, ", ")))
				}
			}
			response += "\n\nAuto-submission results:\n" + strings.Join(lines, "\n")
		} else {
			s.log.Warn("report_service", "no ready payloads despite response", map[string]interface{}{
				"session_id":     req.SessionID,
				"payloads_count": len(session.Payloads),
			})
		}
	}

	s.log.Info("report_service", "report processed", map[string]interface{}{
		"session_id":      req.SessionID,
		"message_length":  len(req.Message),
		"response_length": len(response),
		"auto_submit":     req.AutoSubmit,
	})

	return dto.ProcessReportResponse{Response: response}, nil
}

func (s *reportService) newSession(req dto.ProcessReportRequest) *store.Session {
	now := time.Now().UTC()
	session := &store.Session{
		SessionID:   req.SessionID,
		CreatedAt:   now,
		LastUpdated: now,
		FixedValues: store.FixedContext{
			OperationID:   req.FixedValues.OperationID,
			LocationUUIDs: req.FixedValues.LocationUUIDs,
			ZoneName:      req.FixedValues.ZoneName,
			Date:          req.FixedValues.Date,
			UserName:      req.FixedValues.UserName,
			UserID:        req.FixedValues.UserID,
		},
		Payloads: make(map[string]*store.PayloadRecord),
		Metadata: make(map[string]string),
	}
	if req.N8nContext != "" {
		session.Metadata["n8n_context"] = req.N8nContext
	}

	s.log.Info("report_service", "session created", map[string]interface{}{
		"session_id": session.SessionID,
		"zone":       session.FixedValues.ZoneName,
	})
	return session
}

func (s *reportService) Submit(ctx context.Context, req dto.SubmissionRequest) (dto.SubmissionResponse, error) {
	session, err := s.sessionRepo.Get(ctx, req.SessionID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	return s.submission.SubmitTypes(ctx, session, req.SubmissionTypes)
}

func (s *reportService) Status(ctx context.Context, sessionID string) (dto.SessionStatusResponse, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return dto.SessionStatusResponse{}, err
	}

	ready := []string{}
	missing := map[string][]string{}
	for obsType, record := range session.Payloads {
		switch record.Status {
		case store.StatusReady:
			ready = append(ready, obsType)
		case store.StatusIncomplete:
			missing[obsType] = record.MissingFields
		}
	}

	status := "active"
	if ttl, err := s.sessionRepo.TTL(ctx, sessionID); err == nil && ttl <= 0 {
		status = "expired"
	}

	return dto.SessionStatusResponse{
		SessionID:          sessionID,
		Status:             status,
		PayloadsReady:      ready,
		MissingData:        missing,
		LastUpdated:        session.LastUpdated,
		ConversationLength: len(session.History),
	}, nil
}

func (s *reportService) Clear(ctx context.Context, sessionID string) (dto.MessageResponse, error) {
	deleted, err := s.sessionRepo.Delete(ctx, sessionID)
	if err != nil {
		return dto.MessageResponse{}, err
	}
	if deleted {
		return dto.MessageResponse{Message: "Session cleared successfully."}, nil
	}
	return dto.MessageResponse{Message: "Session not found or already expired."}, nil
}

// mentionsReadySubmission gates auto-submit on the generator saying a
// payload is ready, matching phrases like "ready for avalanche observation
// submission".
func mentionsReadySubmission(response string) bool {
	lower := strings.ToLower(response)
	return strings.Contains(lower, "ready for") && strings.Contains(lower, "submission")
}
