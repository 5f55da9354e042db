package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"memory_party/internal/domain"
)

type LeaderboardReader interface {
	Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

type RecentGamesReader interface {
	Recent(ctx context.Context, limit int) ([]domain.GameRecord, error)
}

// StatsHandler serves read-only views of finished games. Either reader may
// be nil when its store is not configured.
type StatsHandler struct {
	Leaderboard LeaderboardReader
	Games       RecentGamesReader
}

func NewStatsHandler(leaderboard LeaderboardReader, games RecentGamesReader) *StatsHandler {
	return &StatsHandler{Leaderboard: leaderboard, Games: games}
}

// queryLimit reads ?limit=, returning 0 when absent so stores apply their default.
func queryLimit(c *gin.Context) (int, bool) {
	v := c.Query("limit")
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return 0, false
	}
	return n, true
}
