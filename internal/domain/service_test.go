package domain_test

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"example.com/rewards/internal/domain"
	"example.com/rewards/internal/projection"
	"example.com/rewards/internal/scoring"
)

func newEngine(t *testing.T, opts ...domain.EngineOption) *domain.Engine {
	t.Helper()

	calc := scoring.NewCalculator(scoring.DefaultMultipliers(), scoring.WithLogger(log.New(io.Discard, "", 0)))
	opts = append(opts, domain.WithLogger(log.New(io.Discard, "", 0)))
	return domain.NewEngine(calc, scoring.ToTokens, projection.NewStore(), opts...)
}

func waterScenario(userID string) domain.ActivitySubmission {
	return domain.ActivitySubmission{
		UserID:   userID,
		Type:     domain.ActivityWaterSaving,
		Verified: true,
		Payload: domain.WaterSavingPayload{
			Subtype:      "leak_repair",
			WaterSavedL:  500,
			DurationDays: 2,
		},
	}
}

func referral(userID string) domain.ActivitySubmission {
	return domain.ActivitySubmission{
		UserID:  userID,
		Type:    domain.ActivityReferral,
		Payload: domain.ReferralPayload{Referrals: 1},
	}
}

func TestRecordCommitsEntryAndProjection(t *testing.T) {
	engine := newEngine(t)

	entry, err := engine.Record(context.Background(), waterScenario("user-1"))
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)
	require.Equal(t, int64(189), entry.PointsEarned)
	require.Equal(t, "0.189", entry.TokensEarned.StringFixed(3))
	require.True(t, entry.Verified)
	require.False(t, entry.RecordedAt.IsZero())

	projection, err := engine.GetAccountProjection("user-1")
	require.NoError(t, err)
	require.Equal(t, int64(189), projection.TotalPoints)
	require.Equal(t, "0.189", projection.TotalTokens.StringFixed(3))
	require.Equal(t, int64(1), projection.ActivityCounts[domain.ActivityWaterSaving])
}

func TestRecordRejectsInvalidPayloadWithoutStateChange(t *testing.T) {
	engine := newEngine(t)

	_, err := engine.Record(context.Background(), domain.ActivitySubmission{
		UserID: "user-1",
		Type:   domain.ActivityWaterSaving,
		Payload: domain.WaterSavingPayload{
			Subtype:     "leak_repair",
			WaterSavedL: -5,
		},
	})
	require.ErrorIs(t, err, domain.ErrInvalidActivityPayload)

	_, err = engine.GetAccountProjection("user-1")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

type failingStore struct{}

func (failingStore) Apply(domain.LedgerEntry) (domain.AccountProjection, error) {
	return domain.AccountProjection{}, errors.New("disk on fire")
}

func (failingStore) Get(string) (domain.AccountProjection, error) {
	return domain.AccountProjection{}, domain.ErrAccountNotFound
}

func TestRecordSurfacesApplyFailure(t *testing.T) {
	calc := scoring.NewCalculator(scoring.DefaultMultipliers(), scoring.WithLogger(log.New(io.Discard, "", 0)))
	engine := domain.NewEngine(calc, scoring.ToTokens, failingStore{}, domain.WithLogger(log.New(io.Discard, "", 0)))

	_, err := engine.Record(context.Background(), referral("user-1"))
	require.ErrorIs(t, err, domain.ErrLedgerApplyFailed)
}

type stubObservers struct {
	mu        sync.Mutex
	badgeErr  error
	boardErr  error
	persErr   error
	persisted []domain.LedgerEntry
}

func (s *stubObservers) CheckEligibility(context.Context, string, domain.ActivityType) error {
	return s.badgeErr
}

func (s *stubObservers) UpdateScore(context.Context, string, int64) error {
	return s.boardErr
}

func (s *stubObservers) Persist(_ context.Context, entry domain.LedgerEntry, _ domain.AccountProjection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persisted = append(s.persisted, entry)
	return s.persErr
}

func TestRecordSwallowsNotifierFailures(t *testing.T) {
	observers := &stubObservers{
		badgeErr: errors.New("badge service down"),
		boardErr: errors.New("leaderboard down"),
		persErr:  errors.New("store down"),
	}
	engine := newEngine(t,
		domain.WithBadgeChecker(observers),
		domain.WithLeaderboard(observers),
		domain.WithPersister(observers),
	)

	entry, err := engine.Record(context.Background(), referral("user-1"))
	require.NoError(t, err)
	require.Equal(t, int64(100), entry.PointsEarned)

	// The committed entry still reached the persister despite its failure.
	require.Len(t, observers.persisted, 1)
	require.Equal(t, entry.ID, observers.persisted[0].ID)

	projection, err := engine.GetAccountProjection("user-1")
	require.NoError(t, err)
	require.Equal(t, int64(100), projection.TotalPoints)
}

func TestRecordWorksWithNoObservers(t *testing.T) {
	engine := newEngine(t)

	_, err := engine.Record(context.Background(), referral("user-1"))
	require.NoError(t, err)
}

func TestIdenticalSubmissionsMintDistinctEntries(t *testing.T) {
	engine := newEngine(t)

	first, err := engine.Record(context.Background(), referral("user-1"))
	require.NoError(t, err)
	second, err := engine.Record(context.Background(), referral("user-1"))
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, int64(100), first.PointsEarned)
	require.Equal(t, int64(100), second.PointsEarned)

	projection, err := engine.GetAccountProjection("user-1")
	require.NoError(t, err)
	require.Equal(t, int64(200), projection.TotalPoints)
}

func TestConcurrentRecordsSameUserLoseNoUpdates(t *testing.T) {
	engine := newEngine(t)

	const workers = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := engine.Record(context.Background(), referral("user-1"))
			if err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	projection, err := engine.GetAccountProjection("user-1")
	require.NoError(t, err)
	require.Equal(t, int64(workers*100), projection.TotalPoints)
	require.True(t, projection.TotalTokens.Equal(decimal.RequireFromString("5.000")))
	require.Equal(t, int64(workers), projection.ActivityCounts[domain.ActivityReferral])
}

func TestAccountingIdentity(t *testing.T) {
	engine := newEngine(t)

	submissions := []domain.ActivitySubmission{
		waterScenario("user-1"),
		referral("user-1"),
		{
			UserID: "user-1",
			Type:   domain.ActivityMissionVoting,
			Payload: domain.MissionVotingPayload{
				Votes:      4,
				StreakDays: 10,
			},
		},
		{
			UserID:   "user-1",
			Type:     domain.ActivityCarbonCredit,
			Verified: true,
			Payload: domain.CarbonCreditPayload{
				Subtype:    "reforestation",
				TonnesCO2e: 1.5,
			},
		},
	}

	var sumPoints int64
	sumTokens := decimal.Zero
	for _, sub := range submissions {
		entry, err := engine.Record(context.Background(), sub)
		require.NoError(t, err)
		sumPoints += entry.PointsEarned
		sumTokens = sumTokens.Add(entry.TokensEarned)
	}

	projection, err := engine.GetAccountProjection("user-1")
	require.NoError(t, err)
	require.Equal(t, sumPoints, projection.TotalPoints)
	require.True(t, sumTokens.Equal(projection.TotalTokens))
}

func TestTimestampsNeverDecrease(t *testing.T) {
	engine := newEngine(t)

	var last *domain.LedgerEntry
	for i := 0; i < 10; i++ {
		entry, err := engine.Record(context.Background(), referral("user-1"))
		require.NoError(t, err)
		if last != nil {
			require.False(t, entry.RecordedAt.Before(last.RecordedAt))
		}
		last = entry
	}
}
