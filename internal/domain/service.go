package domain

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/rewards/internal/observability"
)

// Scorer maps a submission to a point total.
type Scorer interface {
	Score(ActivitySubmission) (int64, error)
}

// TokenConverter maps a point total to a token amount.
type TokenConverter func(points int64) decimal.Decimal

// ProjectionStore applies committed ledger entries to account aggregates and
// serves snapshots. Implementations must serialize applies per user.
type ProjectionStore interface {
	Apply(LedgerEntry) (AccountProjection, error)
	Get(userID string) (AccountProjection, error)
}

// BadgeChecker is the downstream badge-eligibility observer.
type BadgeChecker interface {
	CheckEligibility(ctx context.Context, userID string, activityType ActivityType) error
}

// LeaderboardUpdater is the downstream standings observer.
type LeaderboardUpdater interface {
	UpdateScore(ctx context.Context, userID string, pointsDelta int64) error
}

// Persister owns durable storage of committed entries and projections.
type Persister interface {
	Persist(ctx context.Context, entry LedgerEntry, projection AccountProjection) error
}

// Engine is the reward accounting core: it validates, scores, converts,
// mints ledger entries, applies them to projections, and announces them to
// downstream observers. The observers are exactly that; the engine commits
// and serves reads even when all of them are absent.
type Engine struct {
	scorer      Scorer
	convert     TokenConverter
	projections ProjectionStore

	badges      BadgeChecker
	leaderboard LeaderboardUpdater
	persister   Persister

	logger *log.Logger

	clockMu  sync.Mutex
	lastTick time.Time
}

// EngineOption configures optional collaborators.
type EngineOption func(*Engine)

// WithBadgeChecker attaches the badge observer.
func WithBadgeChecker(b BadgeChecker) EngineOption {
	return func(e *Engine) { e.badges = b }
}

// WithLeaderboard attaches the standings observer.
func WithLeaderboard(l LeaderboardUpdater) EngineOption {
	return func(e *Engine) { e.leaderboard = l }
}

// WithPersister attaches durable storage.
func WithPersister(p Persister) EngineOption {
	return func(e *Engine) { e.persister = p }
}

// WithLogger overrides the engine logger.
func WithLogger(logger *log.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine constructs an Engine. Scorer, converter, and projection store are
// mandatory; observers are optional.
func NewEngine(scorer Scorer, convert TokenConverter, projections ProjectionStore, opts ...EngineOption) *Engine {
	e := &Engine{
		scorer:      scorer,
		convert:     convert,
		projections: projections,
		logger:      log.New(log.Writer(), "[engine] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Record is the single write entry point. On success the returned entry is
// committed: the projection already reflects it. On failure nothing is
// observably changed. Identical resubmissions mint distinct entries; the
// engine never deduplicates by payload.
func (e *Engine) Record(ctx context.Context, sub ActivitySubmission) (*LedgerEntry, error) {
	points, err := e.scorer.Score(sub)
	if err != nil {
		observability.RecordRejectedSubmission(string(sub.Type))
		return nil, err
	}
	tokens := e.convert(points)

	entry := LedgerEntry{
		ID:           uuid.NewString(),
		UserID:       sub.UserID,
		ActivityType: sub.Type,
		PointsEarned: points,
		TokensEarned: tokens,
		RecordedAt:   e.now(),
		Verified:     sub.Verified,
		Submission:   sub,
	}

	projection, err := e.projections.Apply(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerApplyFailed, err)
	}

	observability.RecordEntryCommitted(string(entry.ActivityType), entry.PointsEarned)

	// Observers run after the commit and outside the per-user critical
	// section. Their failures never roll back the entry.
	e.notify(ctx, entry, projection)

	return &entry, nil
}

// GetAccountProjection returns a read-only snapshot of the user's totals.
func (e *Engine) GetAccountProjection(userID string) (AccountProjection, error) {
	return e.projections.Get(userID)
}

func (e *Engine) notify(ctx context.Context, entry LedgerEntry, projection AccountProjection) {
	if e.badges != nil {
		if err := e.badges.CheckEligibility(ctx, entry.UserID, entry.ActivityType); err != nil {
			e.logger.Printf("badge check failed for user %s: %v", entry.UserID, err)
			observability.RecordNotifierFailure("badges")
		}
	}
	if e.leaderboard != nil {
		if err := e.leaderboard.UpdateScore(ctx, entry.UserID, entry.PointsEarned); err != nil {
			e.logger.Printf("leaderboard update failed for user %s: %v", entry.UserID, err)
			observability.RecordNotifierFailure("leaderboard")
		}
	}
	if e.persister != nil {
		if err := e.persister.Persist(ctx, entry, projection); err != nil {
			e.logger.Printf("persist failed for entry %s: %v", entry.ID, err)
			observability.RecordNotifierFailure("persistence")
		}
	}
}

// now returns a per-process monotonically non-decreasing UTC timestamp.
func (e *Engine) now() time.Time {
	e.clockMu.Lock()
	defer e.clockMu.Unlock()

	now := time.Now().UTC()
	if now.Before(e.lastTick) {
		now = e.lastTick
	}
	e.lastTick = now
	return now
}
