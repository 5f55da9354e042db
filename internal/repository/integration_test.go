package repository

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memory_party/internal/db"
	"memory_party/internal/domain"
	"memory_party/internal/migrations"
)

// Integration-style tests: they run only if DATABASE_URL / REDIS_ADDR are set.

func TestGameResultRepositoryIntegration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	ctx := context.Background()
	require.NoError(t, migrations.Migrate(ctx, dsn))

	pool, err := db.Connect(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	repo := NewGameResultRepository(pool)
	rec := sampleRecord()
	rec.ID = uuid.NewString()
	rec.RoomCode = "T" + rec.ID[:3]
	rec.FinishedAt = time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond)

	require.NoError(t, repo.Create(ctx, rec))
	require.NoError(t, repo.Create(ctx, rec), "duplicate id must be ignored")

	recent, err := repo.Recent(ctx, 5)
	require.NoError(t, err)
	require.NotEmpty(t, recent)
	assert.Equal(t, rec.ID, recent[0].ID)
	assert.Equal(t, rec.Players, recent[0].Players)
	assert.True(t, rec.FinishedAt.Equal(recent[0].FinishedAt))

	_, err = pool.Exec(ctx, `DELETE FROM game_results WHERE id = $1`, rec.ID)
	require.NoError(t, err)
}

func TestLeaderboardRepositoryIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	index := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			index = n
		}
	}
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), DB: index})
	defer rdb.Close()

	repo := NewLeaderboardRepository(rdb)
	repo.key = "memory_party:test:" + uuid.NewString()
	defer rdb.Del(ctx, repo.key)

	require.NoError(t, repo.Submit(ctx, []domain.PlayerStanding{
		{Name: "Ann", Score: 300},
		{Name: "Bob", Score: 450},
	}))
	// A worse score does not overwrite Ann's best.
	require.NoError(t, repo.Submit(ctx, []domain.PlayerStanding{{Name: "Ann", Score: 100}}))

	top, err := repo.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.LeaderboardEntry{
		{Rank: 1, Name: "Bob", Score: 450},
		{Rank: 2, Name: "Ann", Score: 300},
	}, top)
}
