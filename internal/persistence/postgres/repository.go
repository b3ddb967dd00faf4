// Package postgres provides durable storage for ledger entries, account
// projections, and the rewards outbox.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"example.com/rewards/internal/domain"
	"example.com/rewards/internal/events"
)

// LedgerTopic is the Kafka topic outbox rows target.
const LedgerTopic = "reward_ledger_events"

// Repository implements domain.Persister on top of pgx.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Persist stores the entry append-only, upserts the projection row, and
// appends the outbox event inside a single transaction.
func (r *Repository) Persist(ctx context.Context, entry domain.LedgerEntry, projection domain.AccountProjection) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	submission, err := json.Marshal(entry.Submission)
	if err != nil {
		return fmt.Errorf("marshal submission for entry %s: %w", entry.ID, err)
	}

	insertEntry := `INSERT INTO ledger_entries (entry_id, user_id, activity_type, points_earned, tokens_earned, verified, recorded_at, submission)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err = tx.Exec(ctx, insertEntry,
		entry.ID,
		entry.UserID,
		string(entry.ActivityType),
		entry.PointsEarned,
		entry.TokensEarned.StringFixed(3),
		entry.Verified,
		entry.RecordedAt,
		submission,
	)
	if err != nil {
		return err
	}

	counts, err := json.Marshal(projection.ActivityCounts)
	if err != nil {
		return fmt.Errorf("marshal counts for user %s: %w", projection.UserID, err)
	}

	upsertProjection := `INSERT INTO account_projections (user_id, total_points, total_tokens, activity_counts, updated_at)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (user_id) DO UPDATE SET
            total_points = EXCLUDED.total_points,
            total_tokens = EXCLUDED.total_tokens,
            activity_counts = EXCLUDED.activity_counts,
            updated_at = EXCLUDED.updated_at`

	_, err = tx.Exec(ctx, upsertProjection,
		projection.UserID,
		projection.TotalPoints,
		projection.TotalTokens.StringFixed(3),
		counts,
		entry.RecordedAt,
	)
	if err != nil {
		return err
	}

	if err = r.insertOutbox(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repository) insertOutbox(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	payload, err := json.Marshal(events.LedgerRecorded{
		EntryID:      entry.ID,
		UserID:       entry.UserID,
		ActivityType: string(entry.ActivityType),
		PointsEarned: entry.PointsEarned,
		TokensEarned: entry.TokensEarned.StringFixed(3),
		Verified:     entry.Verified,
		RecordedAt:   entry.RecordedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal outbox payload for entry %s: %w", entry.ID, err)
	}

	insert := `INSERT INTO rewards_outbox (event_type, topic, partition_key, payload, created_at)
        VALUES ($1,$2,$3,$4,$5)`
	_, err = tx.Exec(ctx, insert, "reward.ledger.recorded", LedgerTopic, entry.UserID, payload, entry.RecordedAt)
	return err
}

// GetProjection loads the durable projection row for a user.
func (r *Repository) GetProjection(ctx context.Context, userID string) (*domain.AccountProjection, error) {
	const query = `SELECT user_id, total_points, total_tokens, activity_counts
        FROM account_projections WHERE user_id=$1`

	row := r.pool.QueryRow(ctx, query, userID)

	var (
		proj      domain.AccountProjection
		tokens    string
		rawCounts []byte
	)
	if err := row.Scan(&proj.UserID, &proj.TotalPoints, &tokens, &rawCounts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	parsed, err := decimal.NewFromString(tokens)
	if err != nil {
		return nil, fmt.Errorf("parse total_tokens for user %s: %w", userID, err)
	}
	proj.TotalTokens = parsed

	proj.ActivityCounts = make(map[domain.ActivityType]int64)
	if len(rawCounts) > 0 {
		if err := json.Unmarshal(rawCounts, &proj.ActivityCounts); err != nil {
			return nil, fmt.Errorf("parse activity_counts for user %s: %w", userID, err)
		}
	}
	return &proj, nil
}

// ListEntries returns a user's ledger entries, newest first.
func (r *Repository) ListEntries(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `SELECT entry_id, user_id, activity_type, points_earned, tokens_earned, verified, recorded_at
        FROM ledger_entries WHERE user_id=$1 ORDER BY recorded_at DESC, entry_id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0, limit)
	for rows.Next() {
		var (
			entry        domain.LedgerEntry
			activityType string
			tokens       string
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &activityType, &entry.PointsEarned, &tokens, &entry.Verified, &entry.RecordedAt); err != nil {
			return nil, err
		}
		entry.ActivityType = domain.ActivityType(activityType)
		parsed, err := decimal.NewFromString(tokens)
		if err != nil {
			return nil, fmt.Errorf("parse tokens_earned for entry %s: %w", entry.ID, err)
		}
		entry.TokensEarned = parsed
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
