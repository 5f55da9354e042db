package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"

	"memory_party/internal/http/handlers"
	"memory_party/internal/http/middleware"
	"memory_party/internal/ws"
)

// Deps is everything the HTTP surface needs. Redis, Leaderboard, Games and
// the health checks are optional.
type Deps struct {
	Hub      *ws.Hub
	Sessions ws.Sessions
	WS       ws.Options

	Redis        *redis.Client
	Leaderboard  handlers.LeaderboardReader
	Games        handlers.RecentGamesReader
	HealthChecks map[string]handlers.CheckFunc
	Rooms        func() int

	AllowedOrigins []string
	WSRateLimit    int
	WSRateWindow   time.Duration
	Version        string
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(cors.New(corsConfig(d.AllowedOrigins)))

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	healthHandler := handlers.NewHealthHandler(d.Version, d.HealthChecks, d.Rooms)
	statsHandler := handlers.NewStatsHandler(d.Leaderboard, d.Games)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/leaderboard", statsHandler.GetLeaderboard)
		v1.GET("/games/recent", statsHandler.GetRecentGames)
	}

	wsOpts := d.WS
	if wsOpts.AllowedOrigins == nil {
		wsOpts.AllowedOrigins = d.AllowedOrigins
	}
	r.GET("/ws",
		middleware.RateLimit(d.Redis, d.WSRateLimit, d.WSRateWindow),
		ws.HandleWS(d.Hub, d.Sessions, wsOpts),
	)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
