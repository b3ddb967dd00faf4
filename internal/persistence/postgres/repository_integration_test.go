//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/rewards/internal/domain"
)

func TestRepositoryPersistsEntryProjectionAndOutbox(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("rewards"),
		postgrescontainer.WithUsername("rewards"),
		postgrescontainer.WithPassword("rewards"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	repo := NewRepository(pool)
	userID := uuid.NewString()

	entry := domain.LedgerEntry{
		ID:           uuid.NewString(),
		UserID:       userID,
		ActivityType: domain.ActivityWaterSaving,
		PointsEarned: 189,
		TokensEarned: decimal.RequireFromString("0.189"),
		RecordedAt:   time.Now().UTC(),
		Verified:     true,
		Submission: domain.ActivitySubmission{
			UserID:   userID,
			Type:     domain.ActivityWaterSaving,
			Verified: true,
			Payload: domain.WaterSavingPayload{
				Subtype:      "leak_repair",
				WaterSavedL:  500,
				DurationDays: 2,
			},
		},
	}
	projection := domain.AccountProjection{
		UserID:      userID,
		TotalPoints: 189,
		TotalTokens: decimal.RequireFromString("0.189"),
		ActivityCounts: map[domain.ActivityType]int64{
			domain.ActivityWaterSaving: 1,
		},
	}

	require.NoError(t, repo.Persist(ctx, entry, projection))

	stored, err := repo.GetProjection(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, int64(189), stored.TotalPoints)
	require.True(t, stored.TotalTokens.Equal(decimal.RequireFromString("0.189")))
	require.Equal(t, int64(1), stored.ActivityCounts[domain.ActivityWaterSaving])

	entries, err := repo.ListEntries(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, entry.ID, entries[0].ID)
	require.Equal(t, "0.189", entries[0].TokensEarned.StringFixed(3))

	var outboxCount int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM rewards_outbox WHERE partition_key=$1 AND published_at IS NULL`,
		userID).Scan(&outboxCount))
	require.Equal(t, 1, outboxCount)
}

func TestRepositoryUpsertsProjection(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("rewards"),
		postgrescontainer.WithUsername("rewards"),
		postgrescontainer.WithPassword("rewards"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	repo := NewRepository(pool)
	userID := uuid.NewString()

	for i, points := range []int64{100, 89} {
		entry := domain.LedgerEntry{
			ID:           uuid.NewString(),
			UserID:       userID,
			ActivityType: domain.ActivityReferral,
			PointsEarned: points,
			TokensEarned: decimal.NewFromInt(points).Div(decimal.NewFromInt(1000)).Round(3),
			RecordedAt:   time.Now().UTC(),
			Submission: domain.ActivitySubmission{
				UserID:  userID,
				Type:    domain.ActivityReferral,
				Payload: domain.ReferralPayload{Referrals: 1},
			},
		}
		projection := domain.AccountProjection{
			UserID:      userID,
			TotalPoints: 100 * int64(i+1),
			TotalTokens: decimal.NewFromInt(100 * int64(i+1)).Div(decimal.NewFromInt(1000)).Round(3),
			ActivityCounts: map[domain.ActivityType]int64{
				domain.ActivityReferral: int64(i + 1),
			},
		}
		require.NoError(t, repo.Persist(ctx, entry, projection))
	}

	stored, err := repo.GetProjection(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, int64(200), stored.TotalPoints)
	require.Equal(t, int64(2), stored.ActivityCounts[domain.ActivityReferral])

	entries, err := repo.ListEntries(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestGetProjectionUnknownUser(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("rewards"),
		postgrescontainer.WithUsername("rewards"),
		postgrescontainer.WithPassword("rewards"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	repo := NewRepository(pool)
	_, err = repo.GetProjection(ctx, uuid.NewString())
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	files := []string{
		"../../../migrations/0001_init.sql",
	}

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	for _, rel := range files {
		path := resolvePath(t, rel)
		contents, readErr := os.ReadFile(path)
		require.NoError(t, readErr)

		_, execErr := pool.Exec(ctx, string(contents))
		require.NoError(t, execErr)
	}
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
