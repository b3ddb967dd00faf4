package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"example.com/rewards/internal/domain"
	"example.com/rewards/internal/events"
)

// LeaderboardHandler replays ledger events into a standings updater so
// leaderboards can be rebuilt in a separate process from the API.
type LeaderboardHandler struct {
	board domain.LeaderboardUpdater
}

// NewLeaderboardHandler constructs a handler over the provided updater.
func NewLeaderboardHandler(board domain.LeaderboardUpdater) *LeaderboardHandler {
	return &LeaderboardHandler{board: board}
}

// Handle applies one reward.ledger.recorded event. Other event types are
// ignored so the topic can grow without breaking this consumer.
func (h *LeaderboardHandler) Handle(ctx context.Context, msg Message) error {
	if msg.EventType != "reward.ledger.recorded" {
		return nil
	}

	var event events.LedgerRecorded
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("decode ledger event at offset %d: %w", msg.Offset, err)
	}
	if event.UserID == "" {
		return fmt.Errorf("ledger event %s has no user id", event.EntryID)
	}

	return h.board.UpdateScore(ctx, event.UserID, event.PointsEarned)
}
