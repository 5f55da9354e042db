package domain

import "time"

// PlayerStanding is a player's final position in a finished game.
type PlayerStanding struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Level    int    `json:"level"`
}

// GameRecord - a finished game, stored once the room reaches its last level
type GameRecord struct {
	ID         string           `db:"id" json:"id"`
	RoomCode   string           `db:"room_code" json:"room_code"`
	Level      int              `db:"level" json:"level"`
	MaxLevel   int              `db:"max_level" json:"max_level"`
	Players    []PlayerStanding `db:"players" json:"players"`
	FinishedAt time.Time        `db:"finished_at" json:"finished_at"`
}

// LeaderboardEntry - one row of the best-score table
type LeaderboardEntry struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int64  `json:"score"`
}
