package infoex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const templatePayloadKey = "AURORA_IDEAL_PAYLOAD"

// requiredFields is the fixed per-type set of fields that must be present
// and non-null before a payload may be submitted.
var requiredFields = map[string][]string{
	TypeFieldSummary: {"obDate", "obStartTime", "obEndTime", "tempHigh", "tempLow",
		"comments", "locationUUIDs", "state"},
	TypeAvalancheObservation: {"obDate", "obTime", "num", "trigger", "character",
		"locationUUIDs", "state"},
	TypeAvalancheSummary: {"obDate", "comments", "avalanchesObserved",
		"percentAreaObserved", "locationUUIDs", "state"},
	TypeHazardAssessment: {"obDate", "obTime", "assessmentType", "avalancheProblems",
		"hazardRatings", "locationUUIDs", "state"},
	TypeSnowpackSummary: {"obDate", "obTime", "snowpackSummary", "locationUUIDs", "state"},
	TypeSnowProfile: {"obDate", "obTime", "elevation", "aspect", "incline",
		"summary", "locationUUIDs", "state"},
	TypeTerrainObservation: {"obDate", "terrainNarrative", "atesRating", "terrainFeature",
		"strategicMindset", "locationUUIDs", "state"},
	TypePersistentWeakLayer: {"name", "creationDate", "color", "operationUUID",
		"assessment"},
}

// RequiredFields returns the required field names for an observation type.
// Unknown types get an empty result so callers can treat "no template" as
// "nothing to validate yet".
func RequiredFields(obsType string) []string {
	fields, ok := requiredFields[obsType]
	if !ok {
		return nil
	}
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// MissingFields returns required fields absent from data, sorted.
func MissingFields(obsType string, data map[string]any) []string {
	var missing []string
	for _, f := range RequiredFields(obsType) {
		if v, ok := data[f]; !ok || v == nil {
			missing = append(missing, f)
		}
	}
	sort.Strings(missing)
	return missing
}

// TemplateStore holds the ideal payload shape per observation type, used to
// seed defaults and enumerate optional fields.
type TemplateStore struct {
	templates map[string]map[string]any
}

// LoadTemplates reads <dir>/<type>.json for every observation type. A
// missing or malformed template file is a startup-fatal condition.
func LoadTemplates(dir string) (*TemplateStore, error) {
	templates := make(map[string]map[string]any, len(ObservationTypes()))
	for _, obsType := range ObservationTypes() {
		path := filepath.Join(dir, obsType+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", path, err)
		}
		tpl, err := parseTemplate(data)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", path, err)
		}
		templates[obsType] = tpl
	}
	return &TemplateStore{templates: templates}, nil
}

// NewTemplateStore builds a store from already-parsed templates.
func NewTemplateStore(templates map[string]map[string]any) *TemplateStore {
	if templates == nil {
		templates = map[string]map[string]any{}
	}
	return &TemplateStore{templates: templates}
}

func parseTemplate(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	tpl, ok := doc[templatePayloadKey].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("missing %s object", templatePayloadKey)
	}
	return tpl, nil
}

// Template returns a copy of the ideal payload for an observation type, or
// an empty map for an unknown type.
func (t *TemplateStore) Template(obsType string) map[string]any {
	tpl, ok := t.templates[obsType]
	if !ok {
		return map[string]any{}
	}
	out := make(map[string]any, len(tpl))
	for k, v := range tpl {
		out[k] = v
	}
	return out
}

// OptionalFields lists template fields that are neither required nor
// already present in data, sorted.
func (t *TemplateStore) OptionalFields(obsType string, data map[string]any) []string {
	required := make(map[string]bool)
	for _, f := range RequiredFields(obsType) {
		required[f] = true
	}
	var optional []string
	for field := range t.templates[obsType] {
		if required[field] {
			continue
		}
		if _, present := data[field]; present {
			continue
		}
		optional = append(optional, field)
	}
	sort.Strings(optional)
	return optional
}
