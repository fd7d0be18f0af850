package infoex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func testPayload() map[string]any {
	return map[string]any{
		"obDate":           "01/15/2026",
		"state":            StateInReview,
		"_aurora_metadata": "internal",
	}
}

func TestSubmitSuccess(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("api_key"))
		assert.Equal(t, "op-uuid", r.Header.Get("operation"))
		assert.Equal(t, "/observation/avalanche", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]string{"uuid": "obs-uuid-1"})
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", "op-uuid", nopLogger{})
	result, err := c.Submit(context.Background(), TypeAvalancheObservation, testPayload())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "obs-uuid-1", result.UUID)

	assert.Equal(t, StateSubmitted, received["state"])
	assert.NotContains(t, received, "_aurora_metadata")
}

func TestSubmitNoIdentifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", "op-uuid", nopLogger{})
	result, err := c.Submit(context.Background(), TypeAvalancheObservation, testPayload())

	assert.False(t, result.Success)
	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, KindNoIdentifier, subErr.Kind)
	assert.False(t, subErr.IsRetryable())
}

func TestSubmitRemoteRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "validation failed",
			"errors": []map[string]string{
				{"field": "trigger", "errorDetails": "not a valid trigger"},
				{"error": "missing value"},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", "op-uuid", nopLogger{})
	result, err := c.Submit(context.Background(), TypeAvalancheObservation, testPayload())

	assert.False(t, result.Success)
	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, KindRemoteRejection, subErr.Kind)
	assert.Equal(t, http.StatusUnprocessableEntity, subErr.StatusCode)
	require.Len(t, subErr.FieldErrors, 2)
	assert.Equal(t, "trigger", subErr.FieldErrors[0].Field)
	assert.Equal(t, "not a valid trigger", subErr.FieldErrors[0].Detail)
	assert.Equal(t, "Unknown", subErr.FieldErrors[1].Field)
	assert.Equal(t, result.FieldErrors, subErr.FieldErrors)
}

func TestSubmitTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", "op-uuid", nopLogger{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Submit(ctx, TypeAvalancheObservation, testPayload())

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, KindTimeout, subErr.Kind)
	assert.True(t, subErr.IsRetryable())
}

func TestSubmitTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := NewClient(server.URL, "test-key", "op-uuid", nopLogger{})
	_, err := c.Submit(context.Background(), TypeAvalancheObservation, testPayload())

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, KindTransport, subErr.Kind)
	assert.True(t, subErr.IsRetryable())
}

func TestSubmitUnknownType(t *testing.T) {
	c := NewClient("http://localhost:0", "test-key", "op-uuid", nopLogger{})
	_, err := c.Submit(context.Background(), "weather_forecast", testPayload())

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Contains(t, subErr.Message, "unknown observation type")
}

func TestSubmitMultipleCounts(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"uuid": "obs-uuid"})
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", "op-uuid", nopLogger{})
	batch := c.SubmitMultiple(context.Background(), []Observation{
		{Type: TypeAvalancheObservation, Payload: testPayload()},
		{Type: TypeFieldSummary, Payload: testPayload()},
		{Type: TypeSnowpackSummary, Payload: testPayload()},
	})

	assert.False(t, batch.Success)
	assert.Equal(t, 3, batch.Total)
	assert.Equal(t, 2, batch.Successful)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, batch.Total, batch.Successful+batch.Failed)
	require.Len(t, batch.Submissions, 3)
	assert.False(t, batch.Submissions[1].Success)
}

func TestLocationsCached(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "op-uuid", r.URL.Query().Get("operationUUID"))
		assert.Equal(t, "OPERATING_ZONE", r.URL.Query().Get("type"))
		json.NewEncoder(w).Encode([]Location{{UUID: "loc-1", Name: "North Bowl"}})
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", "op-uuid", nopLogger{})

	first, err := c.Locations(context.Background())
	require.NoError(t, err)
	second, err := c.Locations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "North Bowl", first[0].Name)
	assert.Equal(t, 1, calls)
}

func TestTestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/observation/constants/", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", "op-uuid", nopLogger{})
	assert.True(t, c.TestConnection(context.Background()))

	server.Close()
	assert.False(t, c.TestConnection(context.Background()))
}
