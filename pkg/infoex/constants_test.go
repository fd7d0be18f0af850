package infoex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegistryShapes(t *testing.T) {
	registry, err := ParseRegistry([]byte(`{
		"trigger": ["Na", "Sa"],
		"character": [
			{"value": "STORM_SLAB", "label": "Storm Slab", "color": "#fdae6b"}
		],
		"elevationBand": {
			"ALP": {"label": "Alpine", "color": "#bdd7e7"},
			"TL": {"label": "Treeline", "color": "#6baed6"}
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Na", "Sa"}, registry.ValidValues("trigger"))
	assert.Equal(t, []string{"STORM_SLAB"}, registry.ValidValues("character"))
	assert.Equal(t, []string{"ALP", "TL"}, registry.ValidValues("elevationBand"))
	assert.Nil(t, registry.ValidValues("unknownSet"))
}

func TestParseRegistryMalformed(t *testing.T) {
	_, err := ParseRegistry([]byte(`{"trigger": [`))
	assert.Error(t, err)
}

func TestRegistryIsValid(t *testing.T) {
	registry := testRegistry(t)

	assert.True(t, registry.IsValid("trigger", "Sa"))
	assert.False(t, registry.IsValid("trigger", "skier"))
	assert.True(t, registry.IsValid("character", "DEEP_PERSISTENT_SLAB"))
	assert.True(t, registry.IsValid("elevationBand", "BTL"))
	assert.False(t, registry.IsValid("elevationBand", "alpine"))
	assert.True(t, registry.IsValid("hazardRatingConstants", "n/a"))
}

func TestCharacterInfo(t *testing.T) {
	registry := testRegistry(t)

	entry, ok := registry.CharacterInfo("WIND_SLAB")
	require.True(t, ok)
	assert.Equal(t, "Wind Slab", entry.Label)
	assert.NotEmpty(t, entry.Color)

	_, ok = registry.CharacterInfo("MONSTER_SLAB")
	assert.False(t, ok)
}

func TestElevationBandInfo(t *testing.T) {
	registry := testRegistry(t)

	entry, ok := registry.ElevationBandInfo("ALP")
	require.True(t, ok)
	assert.Equal(t, "ALP", entry.Value)
	assert.Equal(t, "Alpine", entry.Label)

	_, ok = registry.ElevationBandInfo("SUB")
	assert.False(t, ok)
}

func TestFormatForPrompt(t *testing.T) {
	registry := testRegistry(t)

	text := registry.FormatForPrompt()
	assert.Contains(t, text, "Valid InfoEx Constants:")
	assert.Contains(t, text, "trigger: Na, Nc, Ne, Ni, Sa, Ss, Sr, Ma, Mc, Xa, Xe, Va, U")
	assert.Contains(t, text, "character: ")
	assert.Contains(t, text, "STORM_SLAB")
}
