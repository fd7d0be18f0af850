package infoex

import (
	"fmt"
	"strings"
)

// CategoryValidator checks the category-specific field rules of a payload.
// It returns human-readable problems, one per failing rule, and never stops
// at the first failure.
type CategoryValidator interface {
	Validate(payload map[string]any) []string
}

// ValidatorSet routes a payload to its category validator and runs the
// checks shared by every category (required fields).
type ValidatorSet struct {
	registry   *Registry
	validators map[string]CategoryValidator
}

// NewValidatorSet builds the per-category validator table. Categories
// without field-level rules only get the required-field check.
func NewValidatorSet(registry *Registry) *ValidatorSet {
	return &ValidatorSet{
		registry: registry,
		validators: map[string]CategoryValidator{
			TypeAvalancheObservation: avalancheObservationValidator{registry},
			TypeHazardAssessment:     hazardAssessmentValidator{registry},
			TypeFieldSummary:         fieldSummaryValidator{registry},
			TypeTerrainObservation:   terrainObservationValidator{registry},
		},
	}
}

// Validate returns every problem with the payload: missing required fields
// plus any category-specific rule violations.
func (s *ValidatorSet) Validate(obsType string, payload map[string]any) []string {
	var errs []string
	if missing := MissingFields(obsType, payload); len(missing) > 0 {
		errs = append(errs, fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")))
	}
	if v, ok := s.validators[obsType]; ok {
		errs = append(errs, v.Validate(payload)...)
	}
	return errs
}

var numTokens = map[string]bool{
	"1": true, "2": true, "3": true, "4": true, "5": true, "6": true,
	"7": true, "8": true, "9": true, "10": true, "11": true, "12": true,
	"20": true, "50": true, "100": true,
	"Iso": true, "Sev": true, "Num": true, "NR": true, "Unknown": true,
}

type avalancheObservationValidator struct {
	registry *Registry
}

func (v avalancheObservationValidator) Validate(payload map[string]any) []string {
	var errs []string

	if c, ok := payload["character"]; ok && c != nil {
		if s, isStr := c.(string); !isStr || !v.registry.IsValid("character", s) {
			errs = append(errs, invalidValue("character", c))
		}
	}
	if t, ok := payload["trigger"]; ok && t != nil {
		if s, isStr := t.(string); !isStr || !v.registry.IsValid("trigger", s) {
			errs = append(errs, invalidValue("trigger", t))
		}
	}
	if n, ok := payload["num"]; ok && n != nil {
		if !numTokens[stringify(n)] {
			errs = append(errs, invalidValue("num", n))
		}
	}

	for _, field := range []string{"sizeMin", "sizeMax"} {
		if raw, ok := payload[field]; ok && raw != nil {
			if size, isNum := asFloat(raw); !isNum || size < 1 || size > 5 {
				errs = append(errs, invalidValue(field, raw))
			}
		}
	}
	if lo, okLo := asFloat(payload["sizeMin"]); okLo {
		if hi, okHi := asFloat(payload["sizeMax"]); okHi && lo > hi {
			errs = append(errs, "sizeMin cannot be greater than sizeMax")
		}
	}

	for _, field := range []string{"aspectFrom", "aspectTo"} {
		if a, ok := payload[field]; ok && a != nil {
			if s, isStr := a.(string); !isStr || !v.registry.IsValid("aspectDirection", s) {
				errs = append(errs, invalidValue(field, a))
			}
		}
	}

	return errs
}

type hazardAssessmentValidator struct {
	registry *Registry
}

func (v hazardAssessmentValidator) Validate(payload map[string]any) []string {
	var errs []string

	if t, ok := payload["assessmentType"]; ok && t != nil {
		if s, isStr := t.(string); !isStr || !v.registry.IsValid("assessmentType", s) {
			errs = append(errs, invalidValue("assessmentType", t))
		}
	}

	if raw, ok := payload["avalancheProblems"]; ok && raw != nil {
		errs = append(errs, v.validateProblems(raw)...)
	}
	if raw, ok := payload["hazardRatings"]; ok && raw != nil {
		errs = append(errs, v.validateRatings(raw)...)
	}

	return errs
}

func (v hazardAssessmentValidator) validateProblems(raw any) []string {
	problems, ok := raw.([]any)
	if !ok {
		return []string{invalidValue("avalancheProblems", raw)}
	}

	var errs []string
	for i, item := range problems {
		problem, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("avalancheProblems[%d] is not an object", i))
			continue
		}
		for _, field := range []string{"character", "distribution", "sensitivity"} {
			val, present := problem[field]
			if !present || val == nil {
				errs = append(errs, fmt.Sprintf("avalancheProblems[%d] missing %s", i, field))
				continue
			}
			set := field
			if !v.registry.IsValid(set, stringify(val)) {
				errs = append(errs, fmt.Sprintf("avalancheProblems[%d] has invalid %s: %v", i, field, val))
			}
		}
	}
	return errs
}

func (v hazardAssessmentValidator) validateRatings(raw any) []string {
	ratings, ok := raw.([]any)
	if !ok {
		return []string{invalidValue("hazardRatings", raw)}
	}

	var errs []string
	seen := make(map[string]bool)
	for i, item := range ratings {
		rating, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("hazardRatings[%d] is not an object", i))
			continue
		}
		band, _ := rating["elevationBand"].(string)
		value := stringify(rating["hazardRating"])
		if band == "" || rating["hazardRating"] == nil {
			errs = append(errs, fmt.Sprintf("hazardRatings[%d] missing elevationBand or hazardRating", i))
			continue
		}
		if seen[band] {
			errs = append(errs, fmt.Sprintf("duplicate elevation band in hazardRatings: %s", band))
		}
		seen[band] = true
		if !v.registry.IsValid("elevationBand", band) {
			errs = append(errs, fmt.Sprintf("hazardRatings[%d] has invalid elevationBand: %s", i, band))
		}
		if !v.registry.IsValid("hazardRatingConstants", value) {
			errs = append(errs, fmt.Sprintf("hazardRatings[%d] has invalid hazardRating: %v", i, rating["hazardRating"]))
		}
	}
	return errs
}

type fieldSummaryValidator struct {
	registry *Registry
}

func (v fieldSummaryValidator) Validate(payload map[string]any) []string {
	var errs []string

	checks := []struct{ field, set string }{
		{"windSpeed", "windSpeed"},
		{"windDirection", "cardinalDirection"},
		{"sky", "sky"},
		{"precip", "precipitation"},
	}
	for _, c := range checks {
		if raw, ok := payload[c.field]; ok && raw != nil {
			if s, isStr := raw.(string); !isStr || !v.registry.IsValid(c.set, s) {
				errs = append(errs, invalidValue(c.field, raw))
			}
		}
	}

	if lo, okLo := asFloat(payload["tempLow"]); okLo {
		if hi, okHi := asFloat(payload["tempHigh"]); okHi && lo > hi {
			errs = append(errs, "tempLow cannot be greater than tempHigh")
		}
	}

	// Zero-padded HH:MM compares correctly as strings.
	start, okStart := payload["obStartTime"].(string)
	end, okEnd := payload["obEndTime"].(string)
	if okStart && okEnd && start > end {
		errs = append(errs, "obStartTime cannot be after obEndTime")
	}

	return errs
}

type terrainObservationValidator struct {
	registry *Registry
}

func (v terrainObservationValidator) Validate(payload map[string]any) []string {
	var errs []string

	if raw, ok := payload["atesRating"]; ok && raw != nil {
		if s, isStr := raw.(string); !isStr || !v.registry.IsValid("atesRating", s) {
			errs = append(errs, invalidValue("atesRating", raw))
		}
	}
	if raw, ok := payload["strategicMindset"]; ok && raw != nil {
		if s, isStr := raw.(string); !isStr || !v.registry.IsValid("strategicMindset", s) {
			errs = append(errs, invalidValue("strategicMindset", raw))
		}
	}

	// windExposure and terrainFeature are multi-select. Every element must
	// be in the vocabulary.
	for _, c := range []struct{ field, set string }{
		{"windExposure", "windExposure"},
		{"terrainFeature", "terrainFeature"},
	} {
		raw, ok := payload[c.field]
		if !ok || raw == nil {
			continue
		}
		switch val := raw.(type) {
		case string:
			if !v.registry.IsValid(c.set, val) {
				errs = append(errs, invalidValue(c.field, val))
			}
		case []any:
			for _, item := range val {
				if s, isStr := item.(string); !isStr || !v.registry.IsValid(c.set, s) {
					errs = append(errs, invalidValue(c.field, item))
				}
			}
		default:
			errs = append(errs, invalidValue(c.field, raw))
		}
	}

	return errs
}

func invalidValue(field string, value any) string {
	return fmt.Sprintf("Invalid value for %s: %v", field, value)
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	}
	return 0, false
}
