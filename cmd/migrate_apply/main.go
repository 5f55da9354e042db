package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"memory_party/internal/logger"
	"memory_party/internal/migrations"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), false)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	apply := flag.Bool("apply", false, "apply pending migrations instead of printing their status")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if !*apply {
		if err := migrations.Status(ctx, dsn); err != nil {
			logger.Fatal("failed to read migration status", "error", err)
		}
		return
	}
	if err := migrations.Migrate(ctx, dsn); err != nil {
		logger.Fatal("failed to apply migrations", "error", err)
	}
}
