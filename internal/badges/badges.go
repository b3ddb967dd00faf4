// Package badges awards threshold badges over per-type activity counts.
package badges

import (
	"context"
	"sort"
	"sync"

	"example.com/rewards/internal/domain"
)

// Threshold names the badge earned once a user reaches Count activities of
// the given type.
type Threshold struct {
	ActivityType domain.ActivityType
	Count        int64
	Badge        string
}

// DefaultThresholds returns the platform's badge ladder.
func DefaultThresholds() []Threshold {
	return []Threshold{
		{domain.ActivityWaterSaving, 1, "first-drop"},
		{domain.ActivityWaterSaving, 10, "water-guardian"},
		{domain.ActivityHomeGrownFood, 5, "green-thumb"},
		{domain.ActivityBeeHotel, 3, "pollinator-ally"},
		{domain.ActivityEnvironmentalEducation, 5, "educator"},
		{domain.ActivityReferral, 3, "community-builder"},
		{domain.ActivityLocationMission, 10, "field-agent"},
		{domain.ActivityCarbonCredit, 1, "carbon-pioneer"},
		{domain.ActivityEmergencyResponse, 1, "first-responder"},
		{domain.ActivityLongTermCommitment, 1, "steadfast"},
	}
}

// Checker tracks per-user activity counts and awards badges when thresholds
// are crossed. It implements domain.BadgeChecker.
type Checker struct {
	thresholds []Threshold

	mu      sync.Mutex
	counts  map[string]map[domain.ActivityType]int64
	awarded map[string]map[string]struct{}
}

// NewChecker constructs a Checker with the given ladder.
func NewChecker(thresholds []Threshold) *Checker {
	return &Checker{
		thresholds: thresholds,
		counts:     make(map[string]map[domain.ActivityType]int64),
		awarded:    make(map[string]map[string]struct{}),
	}
}

// CheckEligibility records one activity of the given type and awards any
// badge whose threshold is now met.
func (c *Checker) CheckEligibility(_ context.Context, userID string, activityType domain.ActivityType) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	userCounts, ok := c.counts[userID]
	if !ok {
		userCounts = make(map[domain.ActivityType]int64)
		c.counts[userID] = userCounts
	}
	userCounts[activityType]++

	for _, t := range c.thresholds {
		if t.ActivityType != activityType || userCounts[activityType] < t.Count {
			continue
		}
		userBadges, ok := c.awarded[userID]
		if !ok {
			userBadges = make(map[string]struct{})
			c.awarded[userID] = userBadges
		}
		userBadges[t.Badge] = struct{}{}
	}
	return nil
}

// Badges returns the badges a user has earned, sorted for stable output.
func (c *Checker) Badges(userID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.awarded[userID]))
	for badge := range c.awarded[userID] {
		out = append(out, badge)
	}
	sort.Strings(out)
	return out
}
