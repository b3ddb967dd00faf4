// Package events defines event payloads shared by the outbox dispatcher and
// downstream consumers.
package events

import "time"

// LedgerRecorded is emitted once per committed ledger entry. Token amounts
// travel as decimal strings so precision survives transit.
type LedgerRecorded struct {
	EntryID      string    `json:"entry_id"`
	UserID       string    `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	PointsEarned int64     `json:"points_earned"`
	TokensEarned string    `json:"tokens_earned"`
	Verified     bool      `json:"verified"`
	RecordedAt   time.Time `json:"recorded_at"`
}
