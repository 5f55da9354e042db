package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"memory_party/internal/domain"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

type GameResultRepository struct {
	db *pgxpool.Pool
}

func NewGameResultRepository(db *pgxpool.Pool) *GameResultRepository {
	return &GameResultRepository{db: db}
}

// Create stores a finished game. Saving the same id twice is a no-op.
func (r *GameResultRepository) Create(ctx context.Context, g domain.GameRecord) error {
	playersJSON, err := json.Marshal(g.Players)
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO game_results (id, room_code, level, max_level, players, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`,
		g.ID,
		g.RoomCode,
		g.Level,
		g.MaxLevel,
		playersJSON,
		g.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert game result: %w", err)
	}
	return nil
}

// Recent returns the latest finished games, newest first.
func (r *GameResultRepository) Recent(ctx context.Context, limit int) ([]domain.GameRecord, error) {
	limit = clampLimit(limit, defaultRecentLimit, maxRecentLimit)

	rows, err := r.db.Query(ctx,
		`SELECT id::text, room_code, level, max_level, players, finished_at
		 FROM game_results
		 ORDER BY finished_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent games: %w", err)
	}
	defer rows.Close()

	res := make([]domain.GameRecord, 0, limit)
	for rows.Next() {
		var (
			g           domain.GameRecord
			playersJSON []byte
		)
		if err := rows.Scan(&g.ID, &g.RoomCode, &g.Level, &g.MaxLevel, &playersJSON, &g.FinishedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(playersJSON, &g.Players); err != nil {
			return nil, fmt.Errorf("decode players of game %s: %w", g.ID, err)
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
