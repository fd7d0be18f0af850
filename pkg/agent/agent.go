package agent

import (
	"context"
	"fmt"
	"time"

	"infoex-agent-service/internal/pkg/logger"
	"infoex-agent-service/pkg/infoex"
	"infoex-agent-service/pkg/llm"
	"infoex-agent-service/pkg/store"
)

const n8nContextKey = "n8n_context"

// IAgent turns report messages into tracked observation payloads.
type IAgent interface {
	// ProcessMessage appends the user turn, runs the generator, extracts
	// observation data from the exchange, and updates the session's
	// payload records in place. It returns the generated reply.
	ProcessMessage(ctx context.Context, session *store.Session, message string) (string, error)
}

type reportAgent struct {
	provider    llm.LLMProvider
	registry    *infoex.Registry
	templates   *infoex.TemplateStore
	tracker     *Tracker
	historyMax  int
	temperature float64
	log         logger.ILogger
}

func NewAgent(provider llm.LLMProvider, registry *infoex.Registry, templates *infoex.TemplateStore, historyMax int, temperature float64, log logger.ILogger) IAgent {
	if historyMax <= 0 {
		historyMax = 20
	}
	return &reportAgent{
		provider:    provider,
		registry:    registry,
		templates:   templates,
		tracker:     NewTracker(),
		historyMax:  historyMax,
		temperature: temperature,
		log:         log,
	}
}

func (a *reportAgent) ProcessMessage(ctx context.Context, session *store.Session, message string) (string, error) {
	now := time.Now().UTC()
	session.AppendMessage(store.RoleUser, message, now)

	history := a.buildMessages(session)

	response, err := a.provider.Chat(ctx, history, llm.WithTemperature(a.temperature))
	if err != nil {
		a.log.Error("agent", "generation failed", map[string]interface{}{
			"session_id": session.SessionID,
			"error":      err.Error(),
		})
		return "", fmt.Errorf("generate response: %w", err)
	}

	session.AppendMessage(store.RoleAssistant, response, time.Now().UTC())
	a.updatePayloads(session, message, response)

	a.log.Info("agent", "message processed", map[string]interface{}{
		"session_id":      session.SessionID,
		"message_length":  len(message),
		"response_length": len(response),
	})
	return response, nil
}

// buildMessages assembles the generator input: system prompt, reference
// knowledge for the active types, any n8n handoff context on the first
// turn, then the windowed conversation with the payload status appended
// to the last assistant turn.
func (a *reportAgent) buildMessages(session *store.Session) []llm.Message {
	messages := []llm.Message{{
		Role:    store.RoleSystem,
		Content: BuildSystemPrompt(session.FixedValues, a.registry),
	}}

	if len(session.Payloads) > 0 {
		knowledge := "[REFERENCE KNOWLEDGE]\n"
		for _, obsType := range infoex.ObservationTypes() {
			if _, ok := session.Payloads[obsType]; !ok {
				continue
			}
			knowledge += "\n" + FormatKnowledgeContext(obsType, a.templates) + "\n"
		}
		messages = append(messages,
			llm.Message{Role: store.RoleUser, Content: knowledge + "[END CONTEXT]"},
			llm.Message{Role: store.RoleAssistant, Content: "I understand the InfoEx payload requirements. I'll help ensure accurate submission."},
		)
	}

	if n8nContext := session.Metadata[n8nContextKey]; n8nContext != "" && len(session.History) == 1 {
		messages = append(messages,
			llm.Message{
				Role:    store.RoleUser,
				Content: "Context from n8n conversation:\n" + n8nContext + "\n\nBased on this context, process the following request:",
			},
			llm.Message{
				Role:    store.RoleAssistant,
				Content: "I understand the context. I'll process your request based on this information.",
			},
		)
	}

	history := session.History
	if len(history) > a.historyMax {
		history = history[len(history)-a.historyMax:]
	}
	for _, msg := range history {
		if msg.Role != store.RoleUser && msg.Role != store.RoleAssistant {
			continue
		}
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	if status := a.tracker.StatusSummary(session); status != "" {
		if last := len(messages) - 1; messages[last].Role == store.RoleAssistant {
			messages[last].Content += status
		}
	}

	return messages
}

func (a *reportAgent) updatePayloads(session *store.Session, userMessage, response string) {
	detected := DetectObservationTypes(userMessage, response)
	a.tracker.EnsureInitialized(session, detected)

	for _, obsType := range infoex.ObservationTypes() {
		record, ok := session.Payloads[obsType]
		if !ok || record.Status == store.StatusSubmitted {
			continue
		}
		extracted := ExtractForType(obsType, userMessage, response)
		a.tracker.Merge(session, obsType, extracted)

		updated := session.Payloads[obsType]
		a.log.Info("agent", "payload status updated", map[string]interface{}{
			"session_id":       session.SessionID,
			"observation_type": obsType,
			"status":           updated.Status,
			"missing_fields":   updated.MissingFields,
		})
	}
}
