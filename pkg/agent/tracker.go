package agent

import (
	"fmt"
	"strings"

	"infoex-agent-service/pkg/infoex"
	"infoex-agent-service/pkg/store"
)

// Tracker maintains the per-type payload records on a session: seeding new
// types, merging extracted data, and keeping the missing-field list and
// status in sync with the data. A submitted record is frozen.
type Tracker struct{}

func NewTracker() *Tracker {
	return &Tracker{}
}

// EnsureInitialized creates a payload record for each observation type that
// the session does not track yet, seeded with the session's fixed context.
func (t *Tracker) EnsureInitialized(session *store.Session, obsTypes []string) {
	if session.Payloads == nil {
		session.Payloads = make(map[string]*store.PayloadRecord)
	}

	for _, obsType := range obsTypes {
		if _, ok := session.Payloads[obsType]; ok {
			continue
		}
		record := &store.PayloadRecord{
			ObservationType: obsType,
			Status:          store.StatusIncomplete,
			Data: map[string]any{
				"obDate":        session.FixedValues.Date,
				"locationUUIDs": session.FixedValues.LocationUUIDs,
				"operationUUID": session.FixedValues.OperationID,
				"state":         infoex.StateInReview,
			},
		}
		record.MissingFields = infoex.MissingFields(obsType, record.Data)
		session.Payloads[obsType] = record
	}
}

// Merge folds extracted data into a payload record and recomputes its
// missing fields and status. Submitted records are never touched. The
// stored record is replaced, not mutated, so a failed merge cannot leave
// it half-updated.
func (t *Tracker) Merge(session *store.Session, obsType string, extracted map[string]any) {
	record, ok := session.Payloads[obsType]
	if !ok || record.Status == store.StatusSubmitted {
		return
	}

	next := record.Clone()
	for k, v := range extracted {
		next.Data[k] = v
	}

	next.MissingFields = infoex.MissingFields(obsType, next.Data)
	if len(next.MissingFields) == 0 {
		next.Status = store.StatusReady
	} else {
		next.Status = store.StatusIncomplete
	}

	session.Payloads[obsType] = next
}

// MarkSubmitted freezes a record with the identifier InfoEx returned.
func (t *Tracker) MarkSubmitted(session *store.Session, obsType, uuid string) {
	record, ok := session.Payloads[obsType]
	if !ok {
		return
	}
	next := record.Clone()
	next.Status = store.StatusSubmitted
	next.SubmittedUUID = uuid
	next.ValidationErrors = nil
	session.Payloads[obsType] = next
}

// MarkErrored records validation problems without advancing the status.
func (t *Tracker) MarkErrored(session *store.Session, obsType string, errs []string) {
	record, ok := session.Payloads[obsType]
	if !ok || record.Status == store.StatusSubmitted {
		return
	}
	next := record.Clone()
	next.ValidationErrors = errs
	session.Payloads[obsType] = next
}

// StatusSummary renders the payload states as a context block for the
// next conversation turn. Empty when the session tracks nothing.
func (t *Tracker) StatusSummary(session *store.Session) string {
	if len(session.Payloads) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\nCurrent payload status:\n")
	for _, obsType := range infoex.ObservationTypes() {
		record, ok := session.Payloads[obsType]
		if !ok {
			continue
		}
		switch record.Status {
		case store.StatusReady:
			fmt.Fprintf(&b, "- %s: Ready for submission\n", obsType)
		case store.StatusSubmitted:
			fmt.Fprintf(&b, "- %s: Submitted (%s)\n", obsType, record.SubmittedUUID)
		default:
			fmt.Fprintf(&b, "- %s: Missing %s\n", obsType, strings.Join(record.MissingFields, ", "))
		}
	}
	return b.String()
}

// ReadyTypes lists the observation types whose payloads are complete, in
// stable order.
func (t *Tracker) ReadyTypes(session *store.Session) []string {
	var ready []string
	for _, obsType := range infoex.ObservationTypes() {
		if record, ok := session.Payloads[obsType]; ok && record.Status == store.StatusReady {
			ready = append(ready, obsType)
		}
	}
	return ready
}
