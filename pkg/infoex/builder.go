package infoex

import (
	"strings"

	"infoex-agent-service/pkg/store"
)

// Builder assembles submittable payloads: template defaults, then the data
// gathered from the conversation, then the session's fixed context on top.
// The fixed context always wins.
type Builder struct {
	templates  *TemplateStore
	validators *ValidatorSet
}

func NewBuilder(templates *TemplateStore, validators *ValidatorSet) *Builder {
	return &Builder{templates: templates, validators: validators}
}

// Build produces the payload for one observation type from session state.
// It returns the payload and every validation problem found; a non-empty
// error list means the payload must not be submitted.
func (b *Builder) Build(obsType string, session *store.Session) (map[string]any, []string) {
	record, ok := session.Payloads[obsType]
	if !ok {
		return nil, []string{"Observation type not initialized in session"}
	}

	payload := b.templates.Template(obsType)
	for k, v := range record.Data {
		payload[k] = v
	}

	payload["obDate"] = session.FixedValues.Date
	payload["locationUUIDs"] = session.FixedValues.LocationUUIDs
	payload["operationUUID"] = session.FixedValues.OperationID

	if _, ok := payload["state"]; !ok {
		payload["state"] = StateInReview
	}

	if errs := b.validators.Validate(obsType, payload); len(errs) > 0 {
		return nil, errs
	}
	return payload, nil
}

// StripInternalKeys drops every underscore-prefixed key before the payload
// goes over the wire. Templates carry internal metadata under such keys.
func StripInternalKeys(payload map[string]any) map[string]any {
	cleaned := make(map[string]any, len(payload))
	for k, v := range payload {
		if strings.HasPrefix(k, "_") {
			continue
		}
		cleaned[k] = v
	}
	return cleaned
}
