package scoring

import "example.com/rewards/internal/domain"

// Linear coefficients and flat bonuses for each activity rule. Scores follow
// one shape: floor((base + secondary bonus + flat bonuses) * subtype
// multiplier * global multiplier), with the floor applied exactly once.
const (
	waterPointsPerLiter     = 0.1
	waterPointsPerDay       = 2.0
	waterVerifiedBaseFactor = 0.5

	foodPointsPerKg         = 15.0
	foodPointsPerGrowingDay = 1.0
	foodOrganicBonus        = 20.0
	foodSharedBonus         = 10.0

	beePointsPerHotel      = 40.0
	beePointsPerDay        = 0.5
	beeMaintainedBonus     = 15.0
	beeNativePlantsBonus   = 20.0

	educationPointsPerHour        = 10.0
	educationPointsPerParticipant = 2.0
	educationMaterialsBonus       = 25.0
	educationCertifiedBonus       = 30.0

	skillPointsPerHour    = 8.0
	skillPointsPerQuality = 5.0
	skillCertifiedBonus   = 40.0

	referralPointsPerReferral  = 100.0
	referralPointsPerActivated = 50.0

	votingPointsPerVote      = 5.0
	votingPointsPerStreakDay = 1.0

	missionPointsPerMission = 30.0
	missionPointsPerKm      = 0.5
	missionPhotoProofBonus  = 10.0

	carbonPointsPerTonne    = 200.0
	carbonVerifiedBonus     = 100.0

	nftPointsPerListing = 20.0
	nftPointsPerSale    = 10.0
	nftFirstSaleBonus   = 25.0

	emergencyPointsPerHour   = 60.0
	emergencyPointsPerMember = 5.0
	emergencyCertifiedBonus  = 50.0

	commitmentPointsPerDay       = 3.0
	commitmentPointsPerMilestone = 20.0

	innovationPointsPerSubmission = 120.0
	innovationPointsPerAdopter    = 60.0
	innovationOpenSourceBonus     = 50.0

	accessibilityPointsPerImprovement = 25.0
	accessibilityPointsPerUser        = 2.0
	accessibilityAuditBonus           = 30.0
)

// rawScore computes the unmultiplied point value for a submission and
// returns the sub-category used for multiplier lookup. Pure: no state, no
// I/O, deterministic for identical input.
func rawScore(sub domain.ActivitySubmission) (raw float64, subtype string) {
	switch p := sub.Payload.(type) {
	case domain.WaterSavingPayload:
		base := waterPointsPerLiter * p.WaterSavedL
		raw = base + waterPointsPerDay*p.DurationDays
		if sub.Verified {
			raw += waterVerifiedBaseFactor * base
		}
		return raw, p.Subtype

	case domain.HomeGrownFoodPayload:
		raw = foodPointsPerKg*p.HarvestKg + foodPointsPerGrowingDay*p.GrowingDays
		if p.Organic {
			raw += foodOrganicBonus
		}
		if p.ProduceShared {
			raw += foodSharedBonus
		}
		return raw, p.Subtype

	case domain.BeeHotelPayload:
		raw = beePointsPerHotel*p.HotelCount + beePointsPerDay*p.DaysMaintained
		if p.Maintained {
			raw += beeMaintainedBonus
		}
		if p.NativePlants {
			raw += beeNativePlantsBonus
		}
		return raw, p.Subtype

	case domain.EnvironmentalEducationPayload:
		raw = educationPointsPerHour*p.Hours + educationPointsPerParticipant*p.Participants
		if p.MaterialsShared {
			raw += educationMaterialsBonus
		}
		if p.Certified {
			raw += educationCertifiedBonus
		}
		return raw, p.Subtype

	case domain.SkillBasedPayload:
		raw = skillPointsPerHour*p.Hours + skillPointsPerQuality*p.QualityRating
		if p.Certified {
			raw += skillCertifiedBonus
		}
		return raw, p.Subtype

	case domain.ReferralPayload:
		raw = referralPointsPerReferral*p.Referrals + referralPointsPerActivated*p.Activated
		return raw, ""

	case domain.MissionVotingPayload:
		raw = votingPointsPerVote*p.Votes + votingPointsPerStreakDay*p.StreakDays
		return raw, ""

	case domain.LocationMissionPayload:
		raw = missionPointsPerMission*p.Missions + missionPointsPerKm*p.DistanceKm
		if p.PhotoProof {
			raw += missionPhotoProofBonus
		}
		return raw, p.Subtype

	case domain.CarbonCreditPayload:
		raw = carbonPointsPerTonne * p.TonnesCO2e
		if sub.Verified {
			raw += carbonVerifiedBonus
		}
		return raw, p.Subtype

	case domain.NFTMarketplacePayload:
		raw = nftPointsPerListing*p.Listings + nftPointsPerSale*p.Sales
		if p.FirstSale {
			raw += nftFirstSaleBonus
		}
		return raw, p.Subtype

	case domain.EmergencyResponsePayload:
		raw = emergencyPointsPerHour*p.Hours + emergencyPointsPerMember*p.TeamSize
		if p.Certified {
			raw += emergencyCertifiedBonus
		}
		return raw, p.Subtype

	case domain.LongTermCommitmentPayload:
		raw = commitmentPointsPerDay*p.Days + commitmentPointsPerMilestone*p.Milestones
		return raw, ""

	case domain.InnovationPayload:
		raw = innovationPointsPerSubmission*p.Submissions + innovationPointsPerAdopter*p.Adopters
		if p.OpenSource {
			raw += innovationOpenSourceBonus
		}
		return raw, p.Subtype

	case domain.AccessibilityPayload:
		raw = accessibilityPointsPerImprovement*p.Improvements + accessibilityPointsPerUser*p.UsersHelped
		if p.Audited {
			raw += accessibilityAuditBonus
		}
		return raw, p.Subtype
	}

	return 0, ""
}
