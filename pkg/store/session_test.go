package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPayloadRecordClone(t *testing.T) {
	record := &PayloadRecord{
		ObservationType:  "avalanche_observation",
		Status:           StatusIncomplete,
		MissingFields:    []string{"num", "trigger"},
		ValidationErrors: []string{"Invalid value for trigger: skier"},
		Data:             map[string]any{"obTime": "10:30"},
	}

	clone := record.Clone()
	clone.Data["num"] = "2"
	clone.MissingFields[0] = "mutated"
	clone.Status = StatusReady

	assert.NotContains(t, record.Data, "num")
	assert.Equal(t, "num", record.MissingFields[0])
	assert.Equal(t, StatusIncomplete, record.Status)
	assert.Equal(t, record.ValidationErrors, clone.ValidationErrors)
}

func TestAppendMessage(t *testing.T) {
	session := &Session{SessionID: "sess-1"}
	now := time.Now().UTC()

	session.AppendMessage(RoleUser, "hello", now)
	session.AppendMessage(RoleAssistant, "hi there", now.Add(time.Second))

	assert.Len(t, session.History, 2)
	assert.Equal(t, RoleUser, session.History[0].Role)
	assert.Equal(t, "hi there", session.History[1].Content)
	assert.Equal(t, now.Add(time.Second), session.LastUpdated)
}
