// Package leaderboard maintains ranked point standings.
package leaderboard

import (
	"context"
	"sort"
	"sync"
)

// Standing is one leaderboard row.
type Standing struct {
	Rank   int
	UserID string
	Points int64
}

// Board is an in-memory leaderboard. It implements domain.LeaderboardUpdater
// and doubles as the read model behind the standings endpoint.
type Board struct {
	mu     sync.RWMutex
	points map[string]int64
}

// NewBoard constructs an empty Board.
func NewBoard() *Board {
	return &Board{points: make(map[string]int64)}
}

// UpdateScore adds pointsDelta to the user's standing total.
func (b *Board) UpdateScore(_ context.Context, userID string, pointsDelta int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.points[userID] += pointsDelta
	return nil
}

// Top returns the highest-scoring users, ties broken by user id so output is
// deterministic.
func (b *Board) Top(limit int) []Standing {
	b.mu.RLock()
	standings := make([]Standing, 0, len(b.points))
	for userID, points := range b.points {
		standings = append(standings, Standing{UserID: userID, Points: points})
	}
	b.mu.RUnlock()

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		return standings[i].UserID < standings[j].UserID
	})

	if limit > 0 && len(standings) > limit {
		standings = standings[:limit]
	}
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}
