package infoex

// Observation types accepted by the InfoEx API. The snake-case tags are the
// wire names the external endpoints key on; they are fixed at startup.
const (
	TypeFieldSummary         = "field_summary"
	TypeAvalancheObservation = "avalanche_observation"
	TypeAvalancheSummary     = "avalanche_summary"
	TypeHazardAssessment     = "hazard_assessment"
	TypeSnowpackSummary      = "snowpack_summary"
	TypeSnowProfile          = "snowProfile_observation"
	TypeTerrainObservation   = "terrain_observation"
	TypePersistentWeakLayer  = "pwl_persistent_weak_layer"
)

// Payload state markers understood by InfoEx.
const (
	StateInReview  = "IN_REVIEW"
	StateSubmitted = "SUBMITTED"
)

// ObservationTypes returns all supported types in a stable order.
func ObservationTypes() []string {
	return []string{
		TypeFieldSummary,
		TypeAvalancheSummary,
		TypeAvalancheObservation,
		TypeHazardAssessment,
		TypeSnowpackSummary,
		TypeSnowProfile,
		TypeTerrainObservation,
		TypePersistentWeakLayer,
	}
}

// IsObservationType reports whether s is a known observation type tag.
func IsObservationType(s string) bool {
	for _, t := range ObservationTypes() {
		if t == s {
			return true
		}
	}
	return false
}
