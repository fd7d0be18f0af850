package dto

import "time"

// FixedValues are the authoritative submission parameters the n8n workflow
// attaches to every request.
type FixedValues struct {
	OperationID   string   `json:"operation_id" validate:"required"`
	LocationUUIDs []string `json:"location_uuids" validate:"required,min=1"`
	ZoneName      string   `json:"zone_name" validate:"required"`
	Date          string   `json:"date" validate:"required,datetime=01/02/2006"`
	UserName      string   `json:"user_name"`
	UserID        string   `json:"user_id"`
}

type ProcessReportRequest struct {
	SessionID   string      `json:"session_id" validate:"required"`
	Message     string      `json:"message" validate:"required"`
	FixedValues FixedValues `json:"fixed_values" validate:"required"`
	AutoSubmit  bool        `json:"auto_submit"`
	N8nContext  string      `json:"n8n_context"`
}

type ProcessReportResponse struct {
	Response string `json:"response"`
}

type SubmissionRequest struct {
	SessionID       string   `json:"session_id" validate:"required"`
	SubmissionTypes []string `json:"submission_types" validate:"required,min=1"`
}

type SubmissionDetail struct {
	ObservationType string   `json:"observation_type"`
	Success         bool     `json:"success"`
	UUID            string   `json:"uuid,omitempty"`
	Errors          []string `json:"errors,omitempty"`
}

type SubmissionResponse struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message"`
	Submissions []SubmissionDetail `json:"submissions"`
}

type SessionStatusResponse struct {
	SessionID          string              `json:"session_id"`
	Status             string              `json:"status"` // active, expired
	PayloadsReady      []string            `json:"payloads_ready"`
	MissingData        map[string][]string `json:"missing_data"`
	LastUpdated        time.Time           `json:"last_updated"`
	ConversationLength int                 `json:"conversation_length"`
}

type HealthCheckResponse struct {
	Status    string          `json:"status"` // healthy, degraded, unhealthy
	Timestamp time.Time       `json:"timestamp"`
	Checks    map[string]bool `json:"checks"`
	Version   string          `json:"version"`
}

type LocationOption struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type LocationsResponse struct {
	Locations []LocationOption `json:"locations"`
	Count     int              `json:"count"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// SubmissionEvent is the message published on the internal bus after every
// submission attempt, consumed by the audit logger.
type SubmissionEvent struct {
	SessionID       string         `json:"session_id"`
	ObservationType string         `json:"observation_type"`
	Success         bool           `json:"success"`
	SubmittedUUID   string         `json:"submitted_uuid,omitempty"`
	Error           string         `json:"error,omitempty"`
	Payload         map[string]any `json:"payload,omitempty"`
	OccurredAt      time.Time      `json:"occurred_at"`
}
