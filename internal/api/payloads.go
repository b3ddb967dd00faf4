package api

import (
	"encoding/json"
	"fmt"

	"example.com/rewards/internal/domain"
)

// decodePayload maps the wire payload object onto the typed variant for the
// declared activity type. Field names follow the public API contract.
func decodePayload(activityType domain.ActivityType, raw json.RawMessage) (domain.Payload, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing payload for activity type %q", activityType)
	}

	switch activityType {
	case domain.ActivityWaterSaving:
		var wire struct {
			Subtype      string  `json:"subtype"`
			WaterSavedL  float64 `json:"water_saved_liters"`
			DurationDays float64 `json:"duration_days"`
		}
		if err := strictUnmarshal(raw, &wire); err != nil {
			return nil, err
		}
		return domain.WaterSavingPayload{
			Subtype:      wire.Subtype,
			WaterSavedL:  wire.WaterSavedL,
			DurationDays: wire.DurationDays,
		}, nil

	case domain.ActivityHomeGrownFood:
		var wire struct {
			Subtype       string  `json:"subtype"`
			HarvestKg     float64 `json:"harvest_kg"`
			GrowingDays   float64 `json:"growing_days"`
			Organic       bool    `json:"organic"`
			ProduceShared bool    `json:"produce_shared"`
		}
		if err := strictUnmarshal(raw, &wire); err != nil {
			return nil, err
		}
		return domain.HomeGrownFoodPayload{
			Subtype:       wire.Subtype,
			HarvestKg:     wire.HarvestKg,
			GrowingDays:   wire.GrowingDays,
			Organic:       wire.Organic,
			ProduceShared: wire.ProduceShared,
		}, nil

	case domain.ActivityBeeHotel:
		var wire struct {
			Subtype        string  `json:"subtype"`
			HotelCount     float64 `json:"hotel_count"`
			DaysMaintained float64 `json:"days_maintained"`
			Maintained     bool    `json:"maintained"`
			NativePlants   bool    `json:"native_plants"`
		}
		if err := strictUnmarshal(raw, &wire); err != nil {
			return nil, err
		}
		return domain.BeeHotelPayload{
			Subtype:        wire.Subtype,
			HotelCount:     wire.HotelCount,
			DaysMaintained: wire.DaysMaintained,
			Maintained:     wire.Maintained,
			NativePlants:   wire.NativePlants,
		}, nil

	case domain.ActivityEnvironmentalEducation:
		var wire struct {
			Subtype         string  `json:"subtype"`
			Hours           float64 `json:"hours"`
			Participants    float64 `json:"participants"`
			MaterialsShared bool    `json:"materials_shared"`
			Certified       bool    `json:"certified"`
		}
		if err := strictUnmarshal(raw, &wire); err != nil {
			return nil, err
		}
		return domain.EnvironmentalEducationPayload{
			Subtype:         wire.Subtype,
			Hours:           wire.Hours,
			Participants:    wire.Participants,
			MaterialsShared: wire.MaterialsShared,
			Certified:       wire.Certified,
		}, nil

	case domain.ActivitySkillBased:
		var wire struct {
			Subtype       string  `json:"subtype"`
			Hours         float64 `json:"hours"`
			QualityRating float64 `json:"quality_rating"`
			Certified     bool    `json:"certified"`
		}
		if err := strictUnmarshal(raw, &wire); err != nil {
			return nil, err
		}
		return domain.SkillBasedPayload{
			Subtype:       wire.Subtype,
			Hours:         wire.Hours,
			QualityRating: wire.QualityRating,
			Certified:     wire.Certified,
		}, nil

	case domain.ActivityReferral:
		var wire struct {
			Referrals float64 `json:"referrals"`
			Activated float64 `json:"activated"`
		}
		if err := strictUnmarshal(raw, &wire); err != nil {
			return nil, err
		}
		return domain.ReferralPayload{Referrals: wire.Referrals, Activated: wire.Activated}, nil

	case domain.ActivityMissionVoting:
		var wire struct {
			Votes      float64 `json:"votes"`
			StreakDays float64 `json:"streak_days"`
		}
		if err := strictUnmarshal(raw, &wire); err != nil {
			return nil, err
		}
		return domain.MissionVotingPayload{Votes: wire.Votes, StreakDays: wire.StreakDays}, nil

	case domain.ActivityLocationMission:
		var wire struct {
			Subtype    string  `json:"subtype"`
			Missions   float64 `json:"missions"`
			DistanceKm float64 `json:"distance_km"`
			PhotoProof bool    `json:"photo_proof"`
		}
		if err := strictUnmarshal(raw, &wire); err != nil {
			return nil, err
		}
		return domain.LocationMissionPayload{
			Subtype:    wire.Subtype,
			Missions:   wire.Missions,
			DistanceKm: wire.DistanceKm,
			PhotoProof: wire.PhotoProof,
		}, nil

	case domain.ActivityCarbonCredit:
		var wire struct {
			Subtype    string  `json:"subtype"`
			TonnesCO2e float64 `json:"tonnes_co2e"`
		}
		if err := strictUnmarshal(raw, &wire); err != nil {
			return nil, err
		}
		return domain.CarbonCreditPayload{Subtype: wire.Subtype, TonnesCO2e: wire.TonnesCO2e}, nil

	case domain.ActivityNFTMarketplace:
		var wire struct {
			Subtype   string  `json:"subtype"`
			Listings  float64 `json:"listings"`
			Sales     float64 `json:"sales"`
			FirstSale bool    `json:"first_sale"`
		}
		if err := strictUnmarshal(raw, &wire); err != nil {
			return nil, err
		}
		return domain.NFTMarketplacePayload{
			Subtype:   wire.Subtype,
			Listings:  wire.Listings,
			Sales:     wire.Sales,
			FirstSale: wire.FirstSale,
		}, nil

	case domain.ActivityEmergencyResponse:
		var wire struct {
			Subtype   string  `json:"subtype"`
			Hours     float64 `json:"hours"`
			TeamSize  float64 `json:"team_size"`
			Certified bool    `json:"certified"`
		}
		if err := strictUnmarshal(raw, &wire); err != nil {
			return nil, err
		}
		return domain.EmergencyResponsePayload{
			Subtype:   wire.Subtype,
			Hours:     wire.Hours,
			TeamSize:  wire.TeamSize,
			Certified: wire.Certified,
		}, nil

	case domain.ActivityLongTermCommitment:
		var wire struct {
			Days       float64 `json:"days"`
			Milestones float64 `json:"milestones"`
		}
		if err := strictUnmarshal(raw, &wire); err != nil {
			return nil, err
		}
		return domain.LongTermCommitmentPayload{Days: wire.Days, Milestones: wire.Milestones}, nil

	case domain.ActivityInnovation:
		var wire struct {
			Subtype     string  `json:"subtype"`
			Submissions float64 `json:"submissions"`
			Adopters    float64 `json:"adopters"`
			OpenSource  bool    `json:"open_source"`
		}
		if err := strictUnmarshal(raw, &wire); err != nil {
			return nil, err
		}
		return domain.InnovationPayload{
			Subtype:     wire.Subtype,
			Submissions: wire.Submissions,
			Adopters:    wire.Adopters,
			OpenSource:  wire.OpenSource,
		}, nil

	case domain.ActivityAccessibility:
		var wire struct {
			Subtype      string  `json:"subtype"`
			Improvements float64 `json:"improvements"`
			UsersHelped  float64 `json:"users_helped"`
			Audited      bool    `json:"audited"`
		}
		if err := strictUnmarshal(raw, &wire); err != nil {
			return nil, err
		}
		return domain.AccessibilityPayload{
			Subtype:      wire.Subtype,
			Improvements: wire.Improvements,
			UsersHelped:  wire.UsersHelped,
			Audited:      wire.Audited,
		}, nil
	}

	return nil, fmt.Errorf("unknown activity type %q", activityType)
}

func strictUnmarshal(raw json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("malformed payload: %v", err)
	}
	return nil
}
