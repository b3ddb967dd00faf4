// Package projection maintains per-user reward aggregates in memory.
package projection

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"example.com/rewards/internal/domain"
)

// Store is the only writer of account projections. Applications for the same
// user serialize on a per-user lock so concurrent entries never lose updates;
// different users proceed in parallel.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*account
}

type account struct {
	mu   sync.Mutex
	proj domain.AccountProjection
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{accounts: make(map[string]*account)}
}

// Apply folds one ledger entry into the owning account, creating the account
// lazily on first activity. Mutation is purely additive.
func (s *Store) Apply(entry domain.LedgerEntry) (domain.AccountProjection, error) {
	if entry.UserID == "" {
		return domain.AccountProjection{}, fmt.Errorf("entry %s has no user id", entry.ID)
	}
	if entry.PointsEarned < 0 || entry.TokensEarned.IsNegative() {
		return domain.AccountProjection{}, fmt.Errorf("entry %s carries negative amounts", entry.ID)
	}

	acct := s.accountFor(entry.UserID)

	acct.mu.Lock()
	defer acct.mu.Unlock()

	acct.proj.TotalPoints += entry.PointsEarned
	acct.proj.TotalTokens = acct.proj.TotalTokens.Add(entry.TokensEarned)
	acct.proj.ActivityCounts[entry.ActivityType]++

	return acct.proj.Clone(), nil
}

// Get returns a snapshot of the user's projection.
func (s *Store) Get(userID string) (domain.AccountProjection, error) {
	s.mu.RLock()
	acct, ok := s.accounts[userID]
	s.mu.RUnlock()
	if !ok {
		return domain.AccountProjection{}, domain.ErrAccountNotFound
	}

	acct.mu.Lock()
	defer acct.mu.Unlock()
	return acct.proj.Clone(), nil
}

func (s *Store) accountFor(userID string) *account {
	s.mu.RLock()
	acct, ok := s.accounts[userID]
	s.mu.RUnlock()
	if ok {
		return acct
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if acct, ok := s.accounts[userID]; ok {
		return acct
	}
	acct = &account{proj: domain.AccountProjection{
		UserID:         userID,
		TotalTokens:    decimal.Zero,
		ActivityCounts: make(map[domain.ActivityType]int64),
	}}
	s.accounts[userID] = acct
	return acct
}
