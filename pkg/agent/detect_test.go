package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"infoex-agent-service/pkg/infoex"
)

func TestDetectObservationTypes(t *testing.T) {
	types := DetectObservationTypes(
		"We saw a size 2 storm slab avalanche below treeline today",
		"Noted. Was it skier triggered?",
	)

	assert.Contains(t, types, infoex.TypeAvalancheObservation)
	assert.Contains(t, types, infoex.TypeHazardAssessment)
}

func TestDetectObservationTypesCaseInsensitive(t *testing.T) {
	types := DetectObservationTypes("FIELD SUMMARY for today", "")
	assert.Equal(t, []string{infoex.TypeFieldSummary}, types)
}

func TestDetectObservationTypesFromResponse(t *testing.T) {
	types := DetectObservationTypes(
		"here is my report",
		"Sounds like you want to file a snowpack summary.",
	)
	assert.Equal(t, []string{infoex.TypeSnowpackSummary}, types)
}

func TestDetectObservationTypesNone(t *testing.T) {
	assert.Empty(t, DetectObservationTypes("hello there", "how can I help?"))
}

func TestDetectObservationTypesStableOrder(t *testing.T) {
	types := DetectObservationTypes(
		"terrain was simple, dug a test pit, saw a persistent weak layer down 60",
		"",
	)

	assert.Equal(t, []string{
		infoex.TypeSnowProfile,
		infoex.TypeTerrainObservation,
		infoex.TypePersistentWeakLayer,
	}, types)
}
