package infoex

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Entry is a labeled vocabulary value (e.g. an avalanche character or a
// hazard rating) carrying display metadata alongside the wire value.
type Entry struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// Registry holds the InfoEx validation vocabularies, loaded once at startup
// and read-only afterward. A missing or malformed source file is fatal.
//
// The backing JSON mixes three shapes per set name:
//   - a plain list of values
//   - a list of Entry objects (value/label/color)
//   - a keyed table code -> Entry (e.g. elevation bands)
type Registry struct {
	sets map[string]any
}

// LoadRegistry reads and parses the constants file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read constants file %s: %w", path, err)
	}
	return ParseRegistry(data)
}

// ParseRegistry builds a Registry from raw JSON.
func ParseRegistry(data []byte) (*Registry, error) {
	var sets map[string]any
	if err := json.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("parse constants: %w", err)
	}
	return &Registry{sets: sets}, nil
}

// ValidValues returns the valid wire values for a set, or nil for an
// unknown set name.
func (r *Registry) ValidValues(name string) []string {
	raw, ok := r.sets[name]
	if !ok {
		return nil
	}

	switch v := raw.(type) {
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				if val, ok := obj["value"].(string); ok {
					values = append(values, val)
					continue
				}
			}
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
		return values
	case map[string]any:
		// Keyed tables: the codes are the valid values. Sorted for a
		// stable prompt/context rendering.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	}
	return nil
}

// IsValid reports whether value belongs to the named set.
func (r *Registry) IsValid(name, value string) bool {
	for _, v := range r.ValidValues(name) {
		if v == value {
			return true
		}
	}
	return false
}

// CharacterInfo returns the labeled entry for an avalanche character value.
func (r *Registry) CharacterInfo(value string) (Entry, bool) {
	list, ok := r.sets["character"].([]any)
	if !ok {
		return Entry{}, false
	}
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if obj["value"] == value {
			return entryFromMap(obj), true
		}
	}
	return Entry{}, false
}

// ElevationBandInfo returns the labeled entry for an elevation band code.
func (r *Registry) ElevationBandInfo(code string) (Entry, bool) {
	table, ok := r.sets["elevationBand"].(map[string]any)
	if !ok {
		return Entry{}, false
	}
	obj, ok := table[code].(map[string]any)
	if !ok {
		return Entry{}, false
	}
	e := entryFromMap(obj)
	e.Value = code
	return e, true
}

func entryFromMap(obj map[string]any) Entry {
	e := Entry{}
	if v, ok := obj["value"].(string); ok {
		e.Value = v
	}
	if v, ok := obj["label"].(string); ok {
		e.Label = v
	}
	if v, ok := obj["color"].(string); ok {
		e.Color = v
	}
	return e
}

// promptSets are the vocabularies worth spelling out to the generator.
var promptSets = []string{
	"character",
	"trigger",
	"distribution",
	"sensitivity",
	"windSpeed",
	"cardinalDirection",
	"sky",
	"precipitation",
	"atesRating",
	"hazardRatingConstants",
}

// FormatForPrompt renders the key vocabularies as a text block for the
// generator's system instruction.
func (r *Registry) FormatForPrompt() string {
	var b strings.Builder
	b.WriteString("Valid InfoEx Constants:\n\n")
	for _, name := range promptSets {
		values := r.ValidValues(name)
		if len(values) == 0 {
			continue
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(strings.Join(values, ", "))
		b.WriteString("\n")
	}
	return b.String()
}
