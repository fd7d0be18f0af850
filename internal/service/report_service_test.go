// FILE: internal/service/report_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infoex-agent-service/internal/dto"
	"infoex-agent-service/pkg/agent"
	"infoex-agent-service/pkg/infoex"
	"infoex-agent-service/pkg/store"
)

type fakeSessionRepo struct {
	sessions map[string]*store.Session
	ttl      time.Duration
	saves    int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*store.Session{}, ttl: time.Hour}
}

func (r *fakeSessionRepo) Get(ctx context.Context, sessionID string) (*store.Session, error) {
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (r *fakeSessionRepo) Save(ctx context.Context, session *store.Session) error {
	r.saves++
	r.sessions[session.SessionID] = session
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, sessionID string) (bool, error) {
	_, ok := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	return ok, nil
}

func (r *fakeSessionRepo) TTL(ctx context.Context, sessionID string) (time.Duration, error) {
	return r.ttl, nil
}

func (r *fakeSessionRepo) ExtendTTL(ctx context.Context, sessionID string) error { return nil }

func (r *fakeSessionRepo) ListActive(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeSessionRepo) Ping(ctx context.Context) error { return nil }

// fakeAgent returns a canned response and optionally marks a payload ready.
type fakeAgent struct {
	response  string
	readyType string
}

func (a *fakeAgent) ProcessMessage(ctx context.Context, session *store.Session, message string) (string, error) {
	session.AppendMessage(store.RoleUser, message, time.Now().UTC())
	session.AppendMessage(store.RoleAssistant, a.response, time.Now().UTC())
	if a.readyType != "" {
		session.Payloads[a.readyType] = &store.PayloadRecord{
			ObservationType: a.readyType,
			Status:          store.StatusReady,
			Data: map[string]any{
				"obDate":          session.FixedValues.Date,
				"obTime":          "09:00",
				"snowpackSummary": "settling well",
				"locationUUIDs":   session.FixedValues.LocationUUIDs,
				"operationUUID":   session.FixedValues.OperationID,
				"state":           infoex.StateInReview,
			},
		}
	}
	return a.response, nil
}

type fakeSubmission struct {
	calls [][]string
	resp  dto.SubmissionResponse
}

func (s *fakeSubmission) SubmitTypes(ctx context.Context, session *store.Session, types []string) (dto.SubmissionResponse, error) {
	s.calls = append(s.calls, types)
	return s.resp, nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func processRequest(autoSubmit bool) dto.ProcessReportRequest {
	return dto.ProcessReportRequest{
		SessionID: "sess-1",
		Message:   "snowpack is settling well",
		FixedValues: dto.FixedValues{
			OperationID:   "op-uuid",
			LocationUUIDs: []string{"loc-1"},
			ZoneName:      "North Zone",
			Date:          "01/15/2026",
		},
		AutoSubmit: autoSubmit,
	}
}

func TestProcessReportCreatesSession(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewReportService(repo, &fakeAgent{response: "Tell me more."}, &fakeSubmission{}, nopLogger{})

	req := processRequest(false)
	req.N8nContext = "workflow run 42"
	resp, err := svc.ProcessReport(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Tell me more.", resp.Response)

	session, ok := repo.sessions["sess-1"]
	require.True(t, ok)
	assert.Equal(t, "op-uuid", session.FixedValues.OperationID)
	assert.Equal(t, "workflow run 42", session.Metadata["n8n_context"])
	assert.Len(t, session.History, 2)
}

func TestProcessReportAutoSubmitOnReadyPhrase(t *testing.T) {
	repo := newFakeSessionRepo()
	submission := &fakeSubmission{resp: dto.SubmissionResponse{
		Success: true,
		Submissions: []dto.SubmissionDetail{
			{ObservationType: infoex.TypeSnowpackSummary, Success: true, UUID: "obs-uuid-1"},
		},
	}}
	reportAgent := &fakeAgent{
		response:  "Payload validated and ready for snowpack summary submission.",
		readyType: infoex.TypeSnowpackSummary,
	}
	svc := NewReportService(repo, reportAgent, submission, nopLogger{})

	resp, err := svc.ProcessReport(context.Background(), processRequest(true))
	require.NoError(t, err)

	require.Len(t, submission.calls, 1)
	assert.Equal(t, []string{infoex.TypeSnowpackSummary}, submission.calls[0])
	assert.Contains(t, resp.Response, "Auto-submission results:")
	assert.Contains(t, resp.Response, "snowpack_summary: Submitted (UUID: obs-uuid-1)")
}

func TestProcessReportNoAutoSubmitWithoutPhrase(t *testing.T) {
	repo := newFakeSessionRepo()
	submission := &fakeSubmission{}
	reportAgent := &fakeAgent{
		response:  "I still need the observation time.",
		readyType: infoex.TypeSnowpackSummary,
	}
	svc := NewReportService(repo, reportAgent, submission, nopLogger{})

	_, err := svc.ProcessReport(context.Background(), processRequest(true))
	require.NoError(t, err)
	assert.Empty(t, submission.calls)
}

func TestProcessReportNoAutoSubmitWhenDisabled(t *testing.T) {
	repo := newFakeSessionRepo()
	submission := &fakeSubmission{}
	reportAgent := &fakeAgent{
		response:  "Payload validated and ready for snowpack summary submission.",
		readyType: infoex.TypeSnowpackSummary,
	}
	svc := NewReportService(repo, reportAgent, submission, nopLogger{})

	_, err := svc.ProcessReport(context.Background(), processRequest(false))
	require.NoError(t, err)
	assert.Empty(t, submission.calls)
}

func TestSubmitMissingSession(t *testing.T) {
	svc := NewReportService(newFakeSessionRepo(), &fakeAgent{}, &fakeSubmission{}, nopLogger{})

	_, err := svc.Submit(context.Background(), dto.SubmissionRequest{
		SessionID:       "nope",
		SubmissionTypes: []string{infoex.TypeSnowpackSummary},
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStatus(t *testing.T) {
	repo := newFakeSessionRepo()
	now := time.Now().UTC()
	repo.sessions["sess-1"] = &store.Session{
		SessionID:   "sess-1",
		LastUpdated: now,
		History:     []store.ConversationMessage{{Role: store.RoleUser, Content: "hi"}},
		Payloads: map[string]*store.PayloadRecord{
			infoex.TypeSnowpackSummary: {Status: store.StatusReady},
			infoex.TypeAvalancheObservation: {
				Status:        store.StatusIncomplete,
				MissingFields: []string{"num", "trigger"},
			},
		},
	}
	svc := NewReportService(repo, &fakeAgent{}, &fakeSubmission{}, nopLogger{})

	status, err := svc.Status(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "active", status.Status)
	assert.Equal(t, []string{infoex.TypeSnowpackSummary}, status.PayloadsReady)
	assert.Equal(t, []string{"num", "trigger"}, status.MissingData[infoex.TypeAvalancheObservation])
	assert.Equal(t, 1, status.ConversationLength)

	repo.ttl = 0
	status, err = svc.Status(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "expired", status.Status)
}

func TestClear(t *testing.T) {
	repo := newFakeSessionRepo()
	repo.sessions["sess-1"] = &store.Session{SessionID: "sess-1"}
	svc := NewReportService(repo, &fakeAgent{}, &fakeSubmission{}, nopLogger{})

	resp, err := svc.Clear(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Session cleared successfully.", resp.Message)

	resp, err = svc.Clear(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Session not found or already expired.", resp.Message)
}

var _ agent.IAgent = (*fakeAgent)(nil)
