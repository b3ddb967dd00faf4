package consumer

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/rewards/internal/events"
	"example.com/rewards/internal/leaderboard"
)

func TestLeaderboardHandlerAppliesPoints(t *testing.T) {
	board := leaderboard.NewBoard()
	handler := NewLeaderboardHandler(board)

	payload, err := json.Marshal(events.LedgerRecorded{
		EntryID:      "entry-1",
		UserID:       "user-1",
		ActivityType: "referral",
		PointsEarned: 100,
		TokensEarned: "0.100",
	})
	require.NoError(t, err)

	err = handler.Handle(context.Background(), Message{
		EventType: "reward.ledger.recorded",
		Payload:   payload,
	})
	require.NoError(t, err)

	standings := board.Top(1)
	require.Len(t, standings, 1)
	require.Equal(t, int64(100), standings[0].Points)
}

func TestLeaderboardHandlerIgnoresOtherEventTypes(t *testing.T) {
	board := leaderboard.NewBoard()
	handler := NewLeaderboardHandler(board)

	err := handler.Handle(context.Background(), Message{
		EventType: "reward.badge.awarded",
		Payload:   json.RawMessage(`{}`),
	})
	require.NoError(t, err)
	require.Empty(t, board.Top(10))
}

func TestLeaderboardHandlerRejectsMalformedPayload(t *testing.T) {
	handler := NewLeaderboardHandler(leaderboard.NewBoard())

	err := handler.Handle(context.Background(), Message{
		EventType: "reward.ledger.recorded",
		Payload:   json.RawMessage(`{`),
	})
	require.Error(t, err)
}

func TestLeaderboardHandlerRejectsMissingUser(t *testing.T) {
	handler := NewLeaderboardHandler(leaderboard.NewBoard())

	err := handler.Handle(context.Background(), Message{
		EventType: "reward.ledger.recorded",
		Payload:   json.RawMessage(`{"entry_id":"e-1","points_earned":10}`),
	})
	require.Error(t, err)
}
