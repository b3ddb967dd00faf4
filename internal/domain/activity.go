// Package domain defines the reward accounting engine and its types.
package domain

import (
	"fmt"
	"math"
	"strings"
)

// ActivityType is the closed set of reward-earning activity categories.
type ActivityType string

const (
	ActivityWaterSaving            ActivityType = "water_saving"
	ActivityHomeGrownFood          ActivityType = "home_grown_food"
	ActivityBeeHotel               ActivityType = "bee_hotel"
	ActivityEnvironmentalEducation ActivityType = "environmental_education"
	ActivitySkillBased             ActivityType = "skill_based"
	ActivityReferral               ActivityType = "referral"
	ActivityMissionVoting          ActivityType = "mission_voting"
	ActivityLocationMission        ActivityType = "location_mission"
	ActivityCarbonCredit           ActivityType = "carbon_credit"
	ActivityNFTMarketplace         ActivityType = "nft_marketplace"
	ActivityEmergencyResponse      ActivityType = "emergency_response"
	ActivityLongTermCommitment     ActivityType = "long_term_commitment"
	ActivityInnovation             ActivityType = "innovation"
	ActivityAccessibility          ActivityType = "accessibility"
)

// ActivityTypes lists every known type in a stable order.
func ActivityTypes() []ActivityType {
	return []ActivityType{
		ActivityWaterSaving,
		ActivityHomeGrownFood,
		ActivityBeeHotel,
		ActivityEnvironmentalEducation,
		ActivitySkillBased,
		ActivityReferral,
		ActivityMissionVoting,
		ActivityLocationMission,
		ActivityCarbonCredit,
		ActivityNFTMarketplace,
		ActivityEmergencyResponse,
		ActivityLongTermCommitment,
		ActivityInnovation,
		ActivityAccessibility,
	}
}

// Valid reports whether t is a member of the closed enumeration.
func (t ActivityType) Valid() bool {
	for _, known := range ActivityTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Payload is the closed union of per-type scoring inputs. Each variant
// carries the strongly typed fields its scoring rule consumes.
type Payload interface {
	ActivityType() ActivityType
	Validate() error
}

// ActivitySubmission is the raw input handed to the engine.
type ActivitySubmission struct {
	UserID   string
	Type     ActivityType
	Verified bool
	Location string
	Payload  Payload
}

// Validate checks submission shape before any scoring happens.
func (s ActivitySubmission) Validate() error {
	if strings.TrimSpace(s.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidActivityPayload)
	}
	if !s.Type.Valid() {
		return fmt.Errorf("%w: unknown activity type %q", ErrInvalidActivityPayload, s.Type)
	}
	if s.Payload == nil {
		return fmt.Errorf("%w: missing payload", ErrInvalidActivityPayload)
	}
	if s.Payload.ActivityType() != s.Type {
		return fmt.Errorf("%w: payload is for %q, submission declares %q",
			ErrInvalidActivityPayload, s.Payload.ActivityType(), s.Type)
	}
	return s.Payload.Validate()
}

// WaterSavingPayload covers rain collection, leak repair and similar.
type WaterSavingPayload struct {
	Subtype      string
	WaterSavedL  float64
	DurationDays float64
}

func (WaterSavingPayload) ActivityType() ActivityType { return ActivityWaterSaving }

func (p WaterSavingPayload) Validate() error {
	return checkNonNegative(map[string]float64{
		"water_saved_liters": p.WaterSavedL,
		"duration_days":      p.DurationDays,
	})
}

// HomeGrownFoodPayload covers harvests from home gardens.
type HomeGrownFoodPayload struct {
	Subtype       string
	HarvestKg     float64
	GrowingDays   float64
	Organic       bool
	ProduceShared bool
}

func (HomeGrownFoodPayload) ActivityType() ActivityType { return ActivityHomeGrownFood }

func (p HomeGrownFoodPayload) Validate() error {
	return checkNonNegative(map[string]float64{
		"harvest_kg":   p.HarvestKg,
		"growing_days": p.GrowingDays,
	})
}

// BeeHotelPayload covers pollinator habitat construction and upkeep.
type BeeHotelPayload struct {
	Subtype        string
	HotelCount     float64
	DaysMaintained float64
	Maintained     bool
	NativePlants   bool
}

func (BeeHotelPayload) ActivityType() ActivityType { return ActivityBeeHotel }

func (p BeeHotelPayload) Validate() error {
	return checkNonNegative(map[string]float64{
		"hotel_count":     p.HotelCount,
		"days_maintained": p.DaysMaintained,
	})
}

// EnvironmentalEducationPayload covers teaching and outreach work.
type EnvironmentalEducationPayload struct {
	Subtype         string
	Hours           float64
	Participants    float64
	MaterialsShared bool
	Certified       bool
}

func (EnvironmentalEducationPayload) ActivityType() ActivityType {
	return ActivityEnvironmentalEducation
}

func (p EnvironmentalEducationPayload) Validate() error {
	return checkNonNegative(map[string]float64{
		"hours":        p.Hours,
		"participants": p.Participants,
	})
}

// SkillBasedPayload covers donated skilled labour.
type SkillBasedPayload struct {
	Subtype       string
	Hours         float64
	QualityRating float64
	Certified     bool
}

func (SkillBasedPayload) ActivityType() ActivityType { return ActivitySkillBased }

func (p SkillBasedPayload) Validate() error {
	return checkNonNegative(map[string]float64{
		"hours":          p.Hours,
		"quality_rating": p.QualityRating,
	})
}

// ReferralPayload covers bringing new members onto the platform.
type ReferralPayload struct {
	Referrals float64
	Activated float64
}

func (ReferralPayload) ActivityType() ActivityType { return ActivityReferral }

func (p ReferralPayload) Validate() error {
	return checkNonNegative(map[string]float64{
		"referrals": p.Referrals,
		"activated": p.Activated,
	})
}

// MissionVotingPayload covers governance participation.
type MissionVotingPayload struct {
	Votes      float64
	StreakDays float64
}

func (MissionVotingPayload) ActivityType() ActivityType { return ActivityMissionVoting }

func (p MissionVotingPayload) Validate() error {
	return checkNonNegative(map[string]float64{
		"votes":       p.Votes,
		"streak_days": p.StreakDays,
	})
}

// LocationMissionPayload covers on-site missions (cleanups, surveys).
type LocationMissionPayload struct {
	Subtype    string
	Missions   float64
	DistanceKm float64
	PhotoProof bool
}

func (LocationMissionPayload) ActivityType() ActivityType { return ActivityLocationMission }

func (p LocationMissionPayload) Validate() error {
	return checkNonNegative(map[string]float64{
		"missions":    p.Missions,
		"distance_km": p.DistanceKm,
	})
}

// CarbonCreditPayload covers verified carbon capture work.
type CarbonCreditPayload struct {
	Subtype    string
	TonnesCO2e float64
}

func (CarbonCreditPayload) ActivityType() ActivityType { return ActivityCarbonCredit }

func (p CarbonCreditPayload) Validate() error {
	return checkNonNegative(map[string]float64{
		"tonnes_co2e": p.TonnesCO2e,
	})
}

// NFTMarketplacePayload covers marketplace listings and sales.
type NFTMarketplacePayload struct {
	Subtype   string
	Listings  float64
	Sales     float64
	FirstSale bool
}

func (NFTMarketplacePayload) ActivityType() ActivityType { return ActivityNFTMarketplace }

func (p NFTMarketplacePayload) Validate() error {
	return checkNonNegative(map[string]float64{
		"listings": p.Listings,
		"sales":    p.Sales,
	})
}

// EmergencyResponsePayload covers disaster relief participation.
type EmergencyResponsePayload struct {
	Subtype   string
	Hours     float64
	TeamSize  float64
	Certified bool
}

func (EmergencyResponsePayload) ActivityType() ActivityType { return ActivityEmergencyResponse }

func (p EmergencyResponsePayload) Validate() error {
	return checkNonNegative(map[string]float64{
		"hours":     p.Hours,
		"team_size": p.TeamSize,
	})
}

// LongTermCommitmentPayload covers sustained engagement streaks.
type LongTermCommitmentPayload struct {
	Days       float64
	Milestones float64
}

func (LongTermCommitmentPayload) ActivityType() ActivityType { return ActivityLongTermCommitment }

func (p LongTermCommitmentPayload) Validate() error {
	return checkNonNegative(map[string]float64{
		"days":       p.Days,
		"milestones": p.Milestones,
	})
}

// InnovationPayload covers submitted inventions and process improvements.
type InnovationPayload struct {
	Subtype     string
	Submissions float64
	Adopters    float64
	OpenSource  bool
}

func (InnovationPayload) ActivityType() ActivityType { return ActivityInnovation }

func (p InnovationPayload) Validate() error {
	return checkNonNegative(map[string]float64{
		"submissions": p.Submissions,
		"adopters":    p.Adopters,
	})
}

// AccessibilityPayload covers accessibility improvements to shared spaces.
type AccessibilityPayload struct {
	Subtype      string
	Improvements float64
	UsersHelped  float64
	Audited      bool
}

func (AccessibilityPayload) ActivityType() ActivityType { return ActivityAccessibility }

func (p AccessibilityPayload) Validate() error {
	return checkNonNegative(map[string]float64{
		"improvements": p.Improvements,
		"users_helped": p.UsersHelped,
	})
}

func checkNonNegative(fields map[string]float64) error {
	for name, value := range fields {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidActivityPayload, name)
		}
		if value < 0 {
			return fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalidActivityPayload, name, value)
		}
	}
	return nil
}
