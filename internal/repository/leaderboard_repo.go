package repository

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"memory_party/internal/domain"
)

const (
	leaderboardKey          = "memory_party:leaderboard"
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// LeaderboardRepository keeps each player name's best final score in a
// Redis sorted set.
type LeaderboardRepository struct {
	rdb redis.Cmdable
	key string
}

func NewLeaderboardRepository(rdb redis.Cmdable) *LeaderboardRepository {
	return &LeaderboardRepository{rdb: rdb, key: leaderboardKey}
}

// Submit records the standings of a finished game. Lower scores never
// replace a better one.
func (r *LeaderboardRepository) Submit(ctx context.Context, players []domain.PlayerStanding) error {
	if len(players) == 0 {
		return nil
	}

	members := make([]redis.Z, 0, len(players))
	for _, p := range players {
		members = append(members, redis.Z{Score: float64(p.Score), Member: p.Name})
	}
	if err := r.rdb.ZAddArgs(ctx, r.key, redis.ZAddArgs{GT: true, Members: members}).Err(); err != nil {
		return fmt.Errorf("update leaderboard: %w", err)
	}
	return nil
}

// Top returns the best scores, highest first.
func (r *LeaderboardRepository) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	limit = clampLimit(limit, defaultLeaderboardLimit, maxLeaderboardLimit)

	zs, err := r.rdb.ZRevRangeWithScores(ctx, r.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	res := make([]domain.LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		name, _ := z.Member.(string)
		res = append(res, domain.LeaderboardEntry{Rank: i + 1, Name: name, Score: int64(z.Score)})
	}
	return res, nil
}
