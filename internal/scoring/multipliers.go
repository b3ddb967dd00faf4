package scoring

import "example.com/rewards/internal/domain"

// Multipliers is the immutable rate table handed to the Calculator at
// construction. Nothing mutates it at runtime.
type Multipliers struct {
	// Global holds the per-ActivityType multiplier applied to every score.
	Global map[domain.ActivityType]float64
	// Subtypes holds closed per-type lookup tables for sub-category
	// multipliers. Types absent here have no sub-categories.
	Subtypes map[domain.ActivityType]map[string]float64
}

// DefaultMultipliers returns the platform's published rate table.
func DefaultMultipliers() Multipliers {
	return Multipliers{
		Global: map[domain.ActivityType]float64{
			domain.ActivityWaterSaving:            1.2,
			domain.ActivityHomeGrownFood:          1.1,
			domain.ActivityBeeHotel:               1.5,
			domain.ActivityEnvironmentalEducation: 1.3,
			domain.ActivitySkillBased:             1.0,
			domain.ActivityReferral:               1.0,
			domain.ActivityMissionVoting:          0.8,
			domain.ActivityLocationMission:        1.2,
			domain.ActivityCarbonCredit:           2.0,
			domain.ActivityNFTMarketplace:         0.9,
			domain.ActivityEmergencyResponse:      1.8,
			domain.ActivityLongTermCommitment:     1.1,
			domain.ActivityInnovation:             1.6,
			domain.ActivityAccessibility:          1.4,
		},
		Subtypes: map[domain.ActivityType]map[string]float64{
			domain.ActivityWaterSaving: {
				"rain_collection": 1.5,
				"leak_repair":     2.0,
				"greywater_reuse": 1.8,
				"drip_irrigation": 1.6,
			},
			domain.ActivityHomeGrownFood: {
				"vegetables": 1.2,
				"fruits":     1.3,
				"herbs":      1.0,
				"grains":     1.4,
			},
			domain.ActivityBeeHotel: {
				"solitary_bee":  1.5,
				"bumblebee":     1.3,
				"mixed_habitat": 1.7,
			},
			domain.ActivityEnvironmentalEducation: {
				"workshop":       1.4,
				"school_program": 1.6,
				"online_course":  1.1,
				"community_talk": 1.2,
			},
			domain.ActivitySkillBased: {
				"carpentry": 1.3,
				"plumbing":  1.4,
				"gardening": 1.1,
				"teaching":  1.2,
				"repair":    1.3,
			},
			domain.ActivityLocationMission: {
				"cleanup":  1.5,
				"survey":   1.1,
				"planting": 1.6,
			},
			domain.ActivityCarbonCredit: {
				"reforestation":    1.8,
				"renewable_energy": 1.5,
				"soil_capture":     1.6,
			},
			domain.ActivityNFTMarketplace: {
				"art":         1.0,
				"photography": 1.1,
				"music":       1.2,
			},
			domain.ActivityEmergencyResponse: {
				"flood":     1.7,
				"fire":      1.8,
				"medical":   1.9,
				"logistics": 1.4,
			},
			domain.ActivityInnovation: {
				"hardware": 1.4,
				"software": 1.2,
				"process":  1.1,
			},
			domain.ActivityAccessibility: {
				"mobility":  1.4,
				"vision":    1.4,
				"hearing":   1.3,
				"cognitive": 1.5,
			},
		},
	}
}

// globalFor returns the per-type multiplier, neutral when the table has no
// row for the type.
func (m Multipliers) globalFor(t domain.ActivityType) float64 {
	if mult, ok := m.Global[t]; ok {
		return mult
	}
	return 1.0
}

// subtypeFor resolves a sub-category multiplier. The second return value is
// false only when the type has a lookup table and the subtype is not in it;
// callers fall back to the neutral 1.0 in that case.
func (m Multipliers) subtypeFor(t domain.ActivityType, subtype string) (float64, bool) {
	table, hasTable := m.Subtypes[t]
	if !hasTable || subtype == "" {
		return 1.0, true
	}
	if mult, ok := table[subtype]; ok {
		return mult, true
	}
	return 1.0, false
}
