package infoex

import "fmt"

// FieldError is one field-level problem reported by the remote API.
type FieldError struct {
	Field  string `json:"field"`
	Detail string `json:"detail"`
}

// Submission failure kinds.
const (
	KindRemoteRejection = "remote_rejection"
	KindTimeout         = "timeout"
	KindTransport       = "transport_failure"
	KindNoIdentifier    = "no_identifier_returned"
)

// SubmissionError describes why a payload did not make it into InfoEx.
// Kind discriminates the failure; StatusCode and FieldErrors are only set
// for remote rejections.
type SubmissionError struct {
	Kind        string
	StatusCode  int
	Message     string
	FieldErrors []FieldError
}

func (e *SubmissionError) Error() string {
	switch e.Kind {
	case KindRemoteRejection:
		return fmt.Sprintf("infoex rejected submission (status %d): %s", e.StatusCode, e.Message)
	case KindTimeout:
		return fmt.Sprintf("infoex submission timed out: %s", e.Message)
	case KindNoIdentifier:
		return fmt.Sprintf("infoex accepted submission but returned no identifier: %s", e.Message)
	default:
		return fmt.Sprintf("infoex submission failed: %s", e.Message)
	}
}

// IsRetryable reports whether the failure is worth retrying as-is. Remote
// rejections need payload changes first; the rest are transient.
func (e *SubmissionError) IsRetryable() bool {
	return e.Kind == KindTimeout || e.Kind == KindTransport
}

func newRemoteRejection(status int, message string, fields []FieldError) *SubmissionError {
	return &SubmissionError{Kind: KindRemoteRejection, StatusCode: status, Message: message, FieldErrors: fields}
}

func newTimeout(message string) *SubmissionError {
	return &SubmissionError{Kind: KindTimeout, Message: message}
}

func newTransportFailure(message string) *SubmissionError {
	return &SubmissionError{Kind: KindTransport, Message: message}
}

func newNoIdentifier(message string) *SubmissionError {
	return &SubmissionError{Kind: KindNoIdentifier, Message: message}
}
