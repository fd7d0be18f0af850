package infoex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredFieldsCopySemantics(t *testing.T) {
	fields := RequiredFields(TypeAvalancheObservation)
	require.NotEmpty(t, fields)
	fields[0] = "mutated"

	again := RequiredFields(TypeAvalancheObservation)
	assert.Equal(t, "obDate", again[0])

	assert.Nil(t, RequiredFields("weather_forecast"))
}

func TestMissingFields(t *testing.T) {
	missing := MissingFields(TypeAvalancheObservation, map[string]any{
		"obDate":  "01/15/2026",
		"num":     "1",
		"trigger": nil,
	})

	assert.Equal(t, []string{"character", "locationUUIDs", "obTime", "state", "trigger"}, missing)

	complete := map[string]any{
		"obDate": "01/15/2026", "obTime": "10:30", "num": "1",
		"trigger": "Na", "character": "STORM_SLAB",
		"locationUUIDs": []any{"loc-1"}, "state": "IN_REVIEW",
	}
	assert.Empty(t, MissingFields(TypeAvalancheObservation, complete))
}

func TestTemplateReturnsCopy(t *testing.T) {
	store := NewTemplateStore(map[string]map[string]any{
		TypeSnowpackSummary: {"obTime": "12:00", "_aurora_metadata": "internal"},
	})

	tpl := store.Template(TypeSnowpackSummary)
	tpl["obTime"] = "23:59"

	assert.Equal(t, "12:00", store.Template(TypeSnowpackSummary)["obTime"])
	assert.Empty(t, store.Template("weather_forecast"))
}

func TestOptionalFields(t *testing.T) {
	store := NewTemplateStore(map[string]map[string]any{
		TypeAvalancheObservation: {
			"obDate": nil, "obTime": nil, "num": nil, "trigger": nil,
			"character": nil, "locationUUIDs": nil, "state": nil,
			"sizeMin": nil, "sizeMax": nil, "aspectFrom": nil,
		},
	})

	optional := store.OptionalFields(TypeAvalancheObservation, map[string]any{"sizeMin": 2.0})
	assert.Equal(t, []string{"aspectFrom", "sizeMax"}, optional)
}

func TestLoadTemplatesFromDisk(t *testing.T) {
	store, err := LoadTemplates("../../data/templates")
	require.NoError(t, err)

	for _, obsType := range ObservationTypes() {
		tpl := store.Template(obsType)
		assert.NotEmpty(t, tpl, "template for %s", obsType)
	}
}

func TestLoadTemplatesMissingDir(t *testing.T) {
	_, err := LoadTemplates(t.TempDir())
	assert.Error(t, err)
}
