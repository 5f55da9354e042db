package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"memory_party/internal/logger"
)

// GET /api/v1/leaderboard
func (h *StatsHandler) GetLeaderboard(c *gin.Context) {
	if h.Leaderboard == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard not configured"})
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	entries, err := h.Leaderboard.Top(c.Request.Context(), limit)
	if err != nil {
		logger.Error("failed to read leaderboard", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// GET /api/v1/games/recent
func (h *StatsHandler) GetRecentGames(c *gin.Context) {
	if h.Games == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game history not configured"})
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	games, err := h.Games.Recent(c.Request.Context(), limit)
	if err != nil {
		logger.Error("failed to read recent games", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load games"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}
