package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"

	"memory_party/internal/config"
	"memory_party/internal/db"
	httpServer "memory_party/internal/http"
	"memory_party/internal/http/handlers"
	"memory_party/internal/logger"
	"memory_party/internal/migrations"
	"memory_party/internal/repository"
	"memory_party/internal/session"
	"memory_party/internal/ws"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

const janitorInterval = time.Minute

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := httpServer.Deps{
		AllowedOrigins: cfg.AllowedOrigins,
		WSRateLimit:    cfg.WSRateLimit,
		WSRateWindow:   cfg.WSRateWindow,
		HealthChecks:   map[string]handlers.CheckFunc{},
		Version:        version,
		WS: ws.Options{
			MessageRate:  cfg.ClientMsgRate,
			MessageBurst: cfg.ClientMsgBurst,
		},
	}

	var (
		resultRepo      *repository.GameResultRepository
		leaderboardRepo *repository.LeaderboardRepository
	)

	if cfg.DatabaseURL != "" {
		if cfg.MigrateOnStart {
			if err := migrations.Migrate(ctx, cfg.DatabaseURL); err != nil {
				logger.Fatal("failed to migrate database", "error", err)
			}
		}
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect database", "error", err)
		}
		defer pool.Close()

		resultRepo = repository.NewGameResultRepository(pool)
		deps.Games = resultRepo
		deps.HealthChecks["database"] = pool.Ping
	} else {
		logger.Warn("DATABASE_URL is not set, finished games will not be stored")
	}

	if cfg.RedisAddr != "" {
		rdb, err := db.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// keep serving games; rate limiting falls back to memory
			logger.Warn("redis unavailable, continuing without it", "error", err)
		} else {
			defer rdb.Close()
			leaderboardRepo = repository.NewLeaderboardRepository(rdb)
			deps.Redis = rdb
			deps.Leaderboard = leaderboardRepo
			deps.HealthChecks["redis"] = pingRedis(rdb)
		}
	}

	opts := session.Options{
		MatchPolicy: cfg.MatchPolicy,
		IdleTTL:     cfg.RoomIdleTTL,
	}
	if recorder := repository.NewGameRecorder(resultRepo, leaderboardRepo); recorder.Enabled() {
		opts.Sink = recorder
	}

	hub := ws.NewHub()
	manager := session.NewManager(hub, opts)
	manager.StartJanitor(ctx, janitorInterval)

	deps.Hub = hub
	deps.Sessions = manager
	deps.Rooms = manager.RoomCount

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := httpServer.NewRouter(deps)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version, "match_policy", cfg.MatchPolicy)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

func pingRedis(rdb *redis.Client) handlers.CheckFunc {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
