package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"infoex-agent-service/pkg/infoex"
	"infoex-agent-service/pkg/store"
)

const systemPromptTemplate = `You are an InfoEx API submission specialist for a backcountry guiding operation.
Your role is to parse, validate, and format field report data into accurate InfoEx API payloads.

Core Responsibilities:
1. Parse incoming data (may be structured or conversational)
2. Validate completeness and accuracy against OGRS standards
3. Format into correct InfoEx payload structure
4. Handle both individual observations and full reports that need splitting

CRITICAL: Request Parameters Are Authoritative
- The fixed values provided with each request are the authoritative parameters for THIS submission
- The date in the fixed values is today's report date - use it for all observations
- If the message text mentions different dates, those refer to when events occurred
- Never ask for clarification about these values

Formatting rules:
- Required date format: MM/DD/YYYY (month/day/year)
- Avalanche sizes: 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5 (Size 2+ are significant)
- Elevations must be numeric (e.g. 2100, not "alpine")
- Ensure locationUUIDs are arrays
- Validate against InfoEx enums strictly
- State is always "IN_REVIEW" until submitted

Available observation types and their purposes:
- field_summary: Daily summary (weather, operations, general conditions)
- avalanche_summary: Statistical overview of avalanche activity
- avalanche_observation: Individual avalanche details (size 2+)
- hazard_assessment: Danger ratings and avalanche problems
- snowpack_summary: General snowpack structure and trends
- snowProfile_observation: Detailed layer-by-layer snow profiles
- terrain_observation: Terrain use and strategic mindset
- pwl_persistent_weak_layer: Seasonal weak layer tracking

Parsing priorities:
1. If data mentions specific avalanche(s), build an avalanche_observation
2. If data has hazard ratings, build a hazard_assessment
3. If data has general conditions, build a field_summary
4. Full reports split into multiple appropriate observation types

When data for a type is complete, emit the payload as a fenced json code block
and say "Payload validated and ready for <type> submission". The service handles
the actual submission. Do NOT say you cannot submit and do NOT provide manual
instructions. Only ask for clarification if CRITICAL fields are missing.

%s
Current submission parameters:
- Operation ID: %s
- Location UUIDs: %s
- Zone: %s
- Report Date: %s (This is the submission date for all observations in this report)
- Submitted by: %s
`

// BuildSystemPrompt renders the generator's system instruction with the
// session's fixed context and the validation vocabularies.
func BuildSystemPrompt(fixed store.FixedContext, registry *infoex.Registry) string {
	userName := fixed.UserName
	if userName == "" {
		userName = "Not specified"
	}
	return fmt.Sprintf(systemPromptTemplate,
		registry.FormatForPrompt(),
		fixed.OperationID,
		strings.Join(fixed.LocationUUIDs, ", "),
		fixed.ZoneName,
		fixed.Date,
		userName,
	)
}

// FormatKnowledgeContext renders the endpoint and ideal payload shape for
// one observation type as reference material for the generator.
func FormatKnowledgeContext(obsType string, templates *infoex.TemplateStore) string {
	endpoint, _ := infoex.Endpoint(obsType)
	template := templates.Template(obsType)
	if len(template) == 0 {
		return fmt.Sprintf("No template found for %s", obsType)
	}

	shape, err := json.MarshalIndent(template, "", "  ")
	if err != nil {
		shape = []byte("{}")
	}

	return fmt.Sprintf(`
InfoEx Endpoint: %s
Observation Type: %s

Required Payload Structure:
%s

Key Validation Rules:
- Date format: MM/DD/YYYY
- All locationUUIDs must be valid
- Follow OGRS standards for all terminology
`, endpoint, obsType, shape)
}
