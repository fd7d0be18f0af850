package store

import "time"

// Payload lifecycle states. A record only moves forward:
// incomplete -> ready -> submitted. It never leaves submitted.
const (
	StatusIncomplete = "incomplete"
	StatusReady      = "ready"
	StatusSubmitted  = "submitted"
	StatusError      = "error"
)

// Message roles in the conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// FixedContext holds the per-session submission parameters provided by n8n.
// They are authoritative and applied to every payload regardless of what the
// conversation says.
type FixedContext struct {
	OperationID   string   `json:"operation_id"`
	LocationUUIDs []string `json:"location_uuids"`
	ZoneName      string   `json:"zone_name"`
	Date          string   `json:"date"` // MM/DD/YYYY report date
	UserName      string   `json:"user_name,omitempty"`
	UserID        string   `json:"user_id,omitempty"`
}

// ConversationMessage is a single turn in the session history.
type ConversationMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// PayloadRecord tracks one observation type being assembled for a session.
type PayloadRecord struct {
	ObservationType  string         `json:"observation_type"`
	Status           string         `json:"status"`
	MissingFields    []string       `json:"missing_fields"`
	ValidationErrors []string       `json:"validation_errors,omitempty"`
	Data             map[string]any `json:"data"`
	SubmittedUUID    string         `json:"submitted_uuid,omitempty"`
}

// Clone returns a deep-enough copy of the record: the Data map and the
// string slices are copied so a merge never mutates a stored record.
func (r *PayloadRecord) Clone() *PayloadRecord {
	data := make(map[string]any, len(r.Data))
	for k, v := range r.Data {
		data[k] = v
	}
	out := &PayloadRecord{
		ObservationType: r.ObservationType,
		Status:          r.Status,
		Data:            data,
		SubmittedUUID:   r.SubmittedUUID,
	}
	out.MissingFields = append(out.MissingFields, r.MissingFields...)
	out.ValidationErrors = append(out.ValidationErrors, r.ValidationErrors...)
	return out
}

// Session is the full conversational state for one report, persisted as a
// whole on every mutation. Concurrent writers for the same id race with
// last-write-wins; the store does no locking.
type Session struct {
	SessionID   string                    `json:"session_id"`
	CreatedAt   time.Time                 `json:"created_at"`
	LastUpdated time.Time                 `json:"last_updated"`
	FixedValues FixedContext              `json:"fixed_values"`
	History     []ConversationMessage     `json:"conversation_history"`
	Payloads    map[string]*PayloadRecord `json:"payloads"`
	Metadata    map[string]string         `json:"metadata,omitempty"`
}

// AppendMessage adds a turn to the history and refreshes LastUpdated.
func (s *Session) AppendMessage(role, content string, at time.Time) {
	s.History = append(s.History, ConversationMessage{Role: role, Content: content, Timestamp: at})
	s.LastUpdated = at
}
