package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the immutable record minted for every accepted submission.
// Ownership passes to persistence after creation; nothing mutates it.
type LedgerEntry struct {
	ID           string
	UserID       string
	ActivityType ActivityType
	PointsEarned int64
	TokensEarned decimal.Decimal
	RecordedAt   time.Time
	Verified     bool
	// Submission retains the original input for audit.
	Submission ActivitySubmission
}

// AccountProjection is the per-user running aggregate. It only ever grows.
type AccountProjection struct {
	UserID         string
	TotalPoints    int64
	TotalTokens    decimal.Decimal
	ActivityCounts map[ActivityType]int64
}

// Clone returns an independent copy safe to hand to callers.
func (p AccountProjection) Clone() AccountProjection {
	counts := make(map[ActivityType]int64, len(p.ActivityCounts))
	for k, v := range p.ActivityCounts {
		counts[k] = v
	}
	return AccountProjection{
		UserID:         p.UserID,
		TotalPoints:    p.TotalPoints,
		TotalTokens:    p.TotalTokens,
		ActivityCounts: counts,
	}
}
