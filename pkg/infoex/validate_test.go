package infoex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := LoadRegistry("../../data/infoex_constants.json")
	require.NoError(t, err)
	return registry
}

func TestValidateMissingRequiredFields(t *testing.T) {
	set := NewValidatorSet(testRegistry(t))

	errs := set.Validate(TypeAvalancheObservation, map[string]any{
		"obDate":        "01/15/2026",
		"obTime":        "10:30",
		"num":           "1",
		"character":     "STORM_SLAB",
		"locationUUIDs": []any{"loc-1"},
		"state":         "IN_REVIEW",
	})

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Missing required fields")
	assert.Contains(t, errs[0], "trigger")
}

func TestValidateAvalancheObservationSizes(t *testing.T) {
	set := NewValidatorSet(testRegistry(t))
	base := func() map[string]any {
		return map[string]any{
			"obDate":        "01/15/2026",
			"obTime":        "10:30",
			"num":           "2",
			"trigger":       "Sa",
			"character":     "STORM_SLAB",
			"locationUUIDs": []any{"loc-1"},
			"state":         "IN_REVIEW",
		}
	}

	payload := base()
	payload["sizeMin"] = 3.0
	payload["sizeMax"] = 2.0
	errs := set.Validate(TypeAvalancheObservation, payload)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "sizeMin cannot be greater than sizeMax")

	payload = base()
	payload["sizeMin"] = 2.0
	payload["sizeMax"] = 2.0
	assert.Empty(t, set.Validate(TypeAvalancheObservation, payload))

	payload = base()
	payload["sizeMin"] = 0.5
	errs = set.Validate(TypeAvalancheObservation, payload)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "Invalid value for sizeMin")
}

func TestValidateAvalancheObservationEnums(t *testing.T) {
	set := NewValidatorSet(testRegistry(t))

	errs := set.Validate(TypeAvalancheObservation, map[string]any{
		"obDate":        "01/15/2026",
		"obTime":        "10:30",
		"num":           "lots",
		"trigger":       "skier",
		"character":     "storm slab",
		"locationUUIDs": []any{"loc-1"},
		"state":         "IN_REVIEW",
	})

	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "character")
	assert.Contains(t, errs[1], "trigger")
	assert.Contains(t, errs[2], "num")
}

func TestValidateHazardRatingsDuplicateBand(t *testing.T) {
	set := NewValidatorSet(testRegistry(t))

	payload := map[string]any{
		"obDate":         "01/15/2026",
		"obTime":         "08:00",
		"assessmentType": "Nowcast",
		"avalancheProblems": []any{
			map[string]any{"character": "STORM_SLAB", "distribution": "Widespread", "sensitivity": "Reactive"},
		},
		"hazardRatings": []any{
			map[string]any{"elevationBand": "ALP", "hazardRating": "3"},
			map[string]any{"elevationBand": "ALP", "hazardRating": "2"},
		},
		"locationUUIDs": []any{"loc-1"},
		"state":         "IN_REVIEW",
	}

	errs := set.Validate(TypeHazardAssessment, payload)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "duplicate elevation band")
}

func TestValidateHazardProblemsMissingField(t *testing.T) {
	set := NewValidatorSet(testRegistry(t))

	payload := map[string]any{
		"obDate":         "01/15/2026",
		"obTime":         "08:00",
		"assessmentType": "Forecast",
		"avalancheProblems": []any{
			map[string]any{"character": "WIND_SLAB", "distribution": "Specific"},
		},
		"hazardRatings": []any{
			map[string]any{"elevationBand": "TL", "hazardRating": "n/a"},
		},
		"locationUUIDs": []any{"loc-1"},
		"state":         "IN_REVIEW",
	}

	errs := set.Validate(TypeHazardAssessment, payload)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "avalancheProblems[0] missing sensitivity")
}

func TestValidateFieldSummaryCrossChecks(t *testing.T) {
	set := NewValidatorSet(testRegistry(t))

	payload := map[string]any{
		"obDate":        "01/15/2026",
		"obStartTime":   "16:00",
		"obEndTime":     "08:00",
		"tempHigh":      -8.0,
		"tempLow":       -2.0,
		"comments":      "cold and windy",
		"locationUUIDs": []any{"loc-1"},
		"state":         "IN_REVIEW",
	}

	errs := set.Validate(TypeFieldSummary, payload)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "tempLow cannot be greater than tempHigh")
	assert.Contains(t, errs[1], "obStartTime cannot be after obEndTime")
}

func TestValidateTerrainObservationMultiSelect(t *testing.T) {
	set := NewValidatorSet(testRegistry(t))

	payload := map[string]any{
		"obDate":           "01/15/2026",
		"terrainNarrative": "stayed on simple terrain",
		"atesRating":       "Simple",
		"terrainFeature":   []any{"Open Slope", "Lava Field"},
		"strategicMindset": "Assessment",
		"locationUUIDs":    []any{"loc-1"},
		"state":            "IN_REVIEW",
	}

	errs := set.Validate(TypeTerrainObservation, payload)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Lava Field")
}

func TestValidateUnknownTypeOnlyChecksRequired(t *testing.T) {
	set := NewValidatorSet(testRegistry(t))

	errs := set.Validate(TypeSnowpackSummary, map[string]any{
		"obDate":          "01/15/2026",
		"obTime":          "09:00",
		"snowpackSummary": "settling well",
		"locationUUIDs":   []any{"loc-1"},
		"state":           "IN_REVIEW",
	})
	assert.Empty(t, errs)
}
