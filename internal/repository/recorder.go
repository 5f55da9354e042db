package repository

import (
	"context"
	"errors"

	"memory_party/internal/domain"
)

type resultStore interface {
	Create(ctx context.Context, g domain.GameRecord) error
}

type scoreBoard interface {
	Submit(ctx context.Context, players []domain.PlayerStanding) error
}

// GameRecorder fans a finished game out to the configured stores. Either
// store may be nil.
type GameRecorder struct {
	results     resultStore
	leaderboard scoreBoard
}

func NewGameRecorder(results *GameResultRepository, leaderboard *LeaderboardRepository) *GameRecorder {
	g := &GameRecorder{}
	if results != nil {
		g.results = results
	}
	if leaderboard != nil {
		g.leaderboard = leaderboard
	}
	return g
}

// Enabled reports whether any store is configured.
func (g *GameRecorder) Enabled() bool {
	return g.results != nil || g.leaderboard != nil
}

func (g *GameRecorder) RecordGame(ctx context.Context, rec domain.GameRecord) error {
	var errs []error
	if g.results != nil {
		if err := g.results.Create(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	if g.leaderboard != nil {
		if err := g.leaderboard.Submit(ctx, rec.Players); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
