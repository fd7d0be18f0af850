package infoex

import (
	"strconv"
	"strings"
)

// fieldRenames corrects the field name variants the generator tends to emit
// back to the InfoEx wire names. "type" resolves to assessmentType because
// hazard assessments are the only category where a bare "type" survives the
// extraction prompt.
var fieldRenames = map[string]string{
	"observationDateTime": "obDate",
	"observationDate":     "obDate",
	"date":                "obDate",

	"operation_id":   "operationUUID",
	"operationId":    "operationUUID",
	"location_uuids": "locationUUIDs",

	"avalanches_observed":   "avalanchesObserved",
	"percent_area_observed": "percentAreaObserved",
	"percentArea":           "percentAreaObserved",
	"percent_observed":      "percentAreaObserved",

	"observation_time": "obTime",
	"assessment_time":  "obTime",
	"number":           "num",
	"avalanche_type":   "character",
	"type":             "assessmentType",
	"min_size":         "sizeMin",
	"max_size":         "sizeMax",
	"depth_average":    "depthAvg",
	"depth_min":        "depthMin",
	"depth_max":        "depthMax",

	"start_time":       "obStartTime",
	"end_time":         "obEndTime",
	"temperature_high": "tempHigh",
	"temperature_low":  "tempLow",
	"wind_speed":       "windSpeed",
	"wind_direction":   "windDirection",
	"sky_condition":    "sky",
	"precipitation":    "precip",
	"new_snow_24h":     "hn24",
	"snow_height":      "hs",

	"problems": "avalancheProblems",
	"ratings":  "hazardRatings",

	"ates":    "atesRating",
	"terrain": "terrainFeature",
	"mindset": "strategicMindset",
}

var triggerAliases = map[string]string{
	"natural":         "Na",
	"skier":           "Sa",
	"skier triggered": "Sa",
	"snowmobile":      "Ma",
	"explosive":       "Xa",
	"cornice":         "Nc",
	"unknown":         "U",
	"vehicle":         "Va",
}

// characterAliases maps short codes and spoken names to the canonical
// character enum. Keys are matched lowercase first, then as uppercase codes.
var characterAliases = map[string]string{
	"L":   "LOOSE_DRY_AVALANCHE",
	"WL":  "LOOSE_WET_AVALANCHE",
	"SS":  "STORM_SLAB",
	"WS":  "WIND_SLAB",
	"PS":  "PERSISTENT_SLAB",
	"DPS": "DEEP_PERSISTENT_SLAB",
	"WS2": "WET_SLAB",
	"G":   "GLIDE",
	"C":   "CORNICE",
	"U":   "UNKNOWN",

	"storm slab":      "STORM_SLAB",
	"wind slab":       "WIND_SLAB",
	"wet slab":        "WET_SLAB",
	"persistent slab": "PERSISTENT_SLAB",
	"deep persistent": "DEEP_PERSISTENT_SLAB",
	"cornice":         "CORNICE",
	"glide":           "GLIDE",
	"loose dry":       "LOOSE_DRY_AVALANCHE",
	"loose wet":       "LOOSE_WET_AVALANCHE",
}

var canonicalCharacters = map[string]bool{
	"LOOSE_DRY_AVALANCHE":  true,
	"LOOSE_WET_AVALANCHE":  true,
	"STORM_SLAB":           true,
	"WIND_SLAB":            true,
	"PERSISTENT_SLAB":      true,
	"DEEP_PERSISTENT_SLAB": true,
	"WET_SLAB":             true,
	"GLIDE":                true,
	"CORNICE":              true,
	"UNKNOWN":              true,
}

var windSpeedAliases = map[string]string{
	"calm":     "C",
	"light":    "L",
	"moderate": "M",
	"strong":   "S",
	"extreme":  "X",
	"variable": "V",
}

var skyAliases = map[string]string{
	"clear":     "CLR",
	"few":       "FEW",
	"scattered": "SCT",
	"broken":    "BKN",
	"overcast":  "OVC",
	"obscured":  "X",
}

var mindsetAliases = map[string]string{
	"assessment":     "Assessment",
	"stepping out":   "Stepping Out",
	"status quo":     "Status Quo",
	"stepping back":  "Stepping Back",
	"maintenance":    "Maintenance",
	"entrenchment":   "Entrenchment",
	"open season":    "Open Season",
	"spring diurnal": "Spring Diurnal",
}

var numericFields = []string{
	"tempHigh", "tempLow", "elevationMin", "elevationMax",
	"hs", "hn24", "hst", "percentAreaObserved", "sizeMin", "sizeMax",
	"depthMin", "depthMax", "depthAvg", "width", "length",
}

// Normalize renames extracted fields to wire names and converts their values
// to the enum and numeric forms InfoEx accepts. It returns a new map and is
// idempotent: canonical output fed back through is unchanged.
func Normalize(obsType string, raw map[string]any) map[string]any {
	data := make(map[string]any, len(raw))
	for key, value := range raw {
		if canonical, ok := fieldRenames[key]; ok {
			key = canonical
		}
		data[key] = value
	}

	switch obsType {
	case TypeAvalancheSummary:
		normalizeAvalancheSummary(data)
	case TypeAvalancheObservation:
		normalizeAvalancheObservation(data)
	case TypeFieldSummary:
		normalizeFieldSummary(data)
	case TypeTerrainObservation:
		normalizeTerrainObservation(data)
	}

	if v, ok := data["locationUUIDs"]; ok {
		if _, isList := v.([]any); !isList {
			if _, isStrList := v.([]string); !isStrList {
				data["locationUUIDs"] = []any{v}
			}
		}
	}

	for _, field := range numericFields {
		if s, ok := data[field].(string); ok {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				data[field] = f
			}
		}
	}

	return data
}

func normalizeAvalancheSummary(data map[string]any) {
	if v, ok := data["avalanchesObserved"]; ok {
		switch asString(v) {
		case "yes", "true", "1":
			data["avalanchesObserved"] = "New avalanches"
		case "no", "false", "0":
			data["avalanchesObserved"] = "No new avalanches"
		case "sluffing", "pinwheeling":
			data["avalanchesObserved"] = "Sluffing/Pinwheeling only"
		}
	}
}

func normalizeAvalancheObservation(data map[string]any) {
	if s, ok := data["trigger"].(string); ok {
		if code, hit := triggerAliases[strings.ToLower(s)]; hit {
			data["trigger"] = code
		}
	}

	if v, ok := data["character"]; ok {
		lower := asString(v)
		if canonical, hit := characterAliases[lower]; hit {
			data["character"] = canonical
		} else if canonical, hit := characterAliases[strings.ToUpper(lower)]; hit {
			data["character"] = canonical
		} else if candidate := strings.ReplaceAll(strings.ToUpper(lower), " ", "_"); canonicalCharacters[candidate] {
			data["character"] = candidate
		}
	}

	if v, ok := data["size"]; ok {
		if _, isStr := v.(string); !isStr {
			data["size"] = stringify(v)
		}
	}

	// Aspects come back as ranges sometimes. Keep the first as the start
	// and the last as the end of the range.
	if list, ok := data["aspectFrom"].([]any); ok {
		data["aspectFrom"] = firstOr(list, "N")
	}
	if list, ok := data["aspectTo"].([]any); ok {
		data["aspectTo"] = lastOr(list, "N")
	}
}

func normalizeFieldSummary(data map[string]any) {
	for _, field := range []string{"windSpeed", "amWindSpeed", "pmWindSpeed"} {
		if s, ok := data[field].(string); ok {
			if code, hit := windSpeedAliases[strings.ToLower(s)]; hit {
				data[field] = code
			}
		}
	}

	for _, field := range []string{"sky", "amSky", "pmSky"} {
		if s, ok := data[field].(string); ok {
			if code, hit := skyAliases[strings.ToLower(s)]; hit {
				data[field] = code
			}
		}
	}

	if v, ok := data["precip"]; ok {
		val := asString(v)
		switch {
		// "no" needs a word boundary: "snow" must not match.
		case val == "no", strings.Contains(val, "no "), strings.Contains(val, "nil"):
			data["precip"] = "NIL"
		case strings.Contains(val, "light snow"):
			data["precip"] = "S1"
		case strings.Contains(val, "moderate snow"):
			data["precip"] = "S2"
		case strings.Contains(val, "heavy snow"):
			data["precip"] = "S3"
		case strings.Contains(val, "rain"):
			data["precip"] = "R"
		}
	}
}

func normalizeTerrainObservation(data map[string]any) {
	if v, ok := data["atesRating"]; ok {
		lower := asString(v)
		for _, rating := range []string{"Simple", "Challenging", "Complex"} {
			if lower == strings.ToLower(rating) {
				data["atesRating"] = rating
				break
			}
		}
	}

	if s, ok := data["strategicMindset"].(string); ok {
		if canonical, hit := mindsetAliases[strings.ToLower(s)]; hit {
			data["strategicMindset"] = canonical
		}
	}
}

func asString(v any) string {
	return strings.ToLower(stringify(v))
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

func firstOr(list []any, fallback string) any {
	if len(list) == 0 {
		return fallback
	}
	return list[0]
}

func lastOr(list []any, fallback string) any {
	if len(list) == 0 {
		return fallback
	}
	return list[len(list)-1]
}
