package agent

import (
	"strings"

	"infoex-agent-service/pkg/infoex"
)

// typeKeywords maps observation types to the phrases that signal a report
// is talking about them. Matching is case-insensitive substring search over
// the combined user message and assistant response.
var typeKeywords = map[string][]string{
	infoex.TypeFieldSummary:         {"field summary", "daily summary", "operational summary"},
	infoex.TypeAvalancheObservation: {"avalanche", "size 2", "storm slab", "wind slab"},
	infoex.TypeAvalancheSummary:     {"avalanche activity", "avalanches observed"},
	infoex.TypeHazardAssessment:     {"hazard", "rating", "alpine", "treeline"},
	infoex.TypeSnowpackSummary:      {"snowpack", "layers", "snow structure"},
	infoex.TypeSnowProfile:          {"snow profile", "test pit", "compression test", "pit wall"},
	infoex.TypeTerrainObservation:   {"terrain", "ates", "strategic mindset"},
	infoex.TypePersistentWeakLayer:  {"persistent weak layer", "pwl", "weak layer"},
}

// DetectObservationTypes returns the observation types the conversation
// turn is discussing, in stable type order.
func DetectObservationTypes(userMessage, assistantResponse string) []string {
	combined := strings.ToLower(userMessage + " " + assistantResponse)

	var types []string
	for _, obsType := range infoex.ObservationTypes() {
		for _, term := range typeKeywords[obsType] {
			if strings.Contains(combined, term) {
				types = append(types, obsType)
				break
			}
		}
	}
	return types
}
