package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memory_party/internal/domain"
)

type fakeLeaderboard struct {
	gotLimit int
	entries  []domain.LeaderboardEntry
	err      error
}

func (f *fakeLeaderboard) Top(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	f.gotLimit = limit
	return f.entries, f.err
}

type fakeGames struct {
	games []domain.GameRecord
}

func (f *fakeGames) Recent(context.Context, int) ([]domain.GameRecord, error) {
	return f.games, nil
}

func serve(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func statsRouter(h *StatsHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/leaderboard", h.GetLeaderboard)
	r.GET("/games", h.GetRecentGames)
	return r
}

func TestGetLeaderboard(t *testing.T) {
	lb := &fakeLeaderboard{entries: []domain.LeaderboardEntry{{Rank: 1, Name: "Ann", Score: 500}}}
	r := statsRouter(NewStatsHandler(lb, nil))

	w := serve(r, "/leaderboard?limit=5")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, lb.gotLimit)

	var body struct {
		Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, lb.entries, body.Leaderboard)

	assert.Equal(t, http.StatusBadRequest, serve(r, "/leaderboard?limit=abc").Code)

	lb.err = errors.New("redis down")
	assert.Equal(t, http.StatusInternalServerError, serve(r, "/leaderboard").Code)
}

func TestStatsWithoutStores(t *testing.T) {
	r := statsRouter(NewStatsHandler(nil, nil))
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, "/leaderboard").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, "/games").Code)
}

func TestGetRecentGames(t *testing.T) {
	games := &fakeGames{games: []domain.GameRecord{{ID: "g1", RoomCode: "ABCD", Level: 5, MaxLevel: 5}}}
	r := statsRouter(NewStatsHandler(nil, games))

	w := serve(r, "/games")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"room_code":"ABCD"`)
}

func TestHealthChecks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var dbErr error
	h := NewHealthHandler("test", map[string]CheckFunc{
		"database": func(context.Context) error { return dbErr },
	}, func() int { return 3 })

	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)

	assert.Equal(t, http.StatusOK, serve(r, "/health").Code)
	assert.Equal(t, http.StatusOK, serve(r, "/healthz").Code)

	w := serve(r, "/readyz")
	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Checks["database"])
	assert.Equal(t, "3", resp.Checks["rooms"])

	dbErr = errors.New("connection refused")
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, "/health").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, "/readyz").Code)
	assert.Equal(t, http.StatusOK, serve(r, "/healthz").Code)
}
