package session

import "memory_party/internal/game"

// server -> client event types
const (
	EventRoomCreated   = "room_created"
	EventRoomJoined    = "room_joined"
	EventError         = "error_msg"
	EventRoomUpdate    = "room_update"
	EventPhaseSequence = "phase_sequence"
	EventPhaseMotor    = "phase_motor"
	EventMotorTick     = "motor_tick"
	EventTargetSpawn   = "target_spawn"
	EventTargetClear   = "target_clear"
	EventPhaseRecall   = "phase_recall"
	EventPlayerResult  = "player_result"
	EventRoundResults  = "round_results"
	EventNextLevel     = "next_level"
	EventInfo          = "info_msg"
	EventGameOver      = "game_over"
)

// Event is one frame sent to clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Gateway delivers events to connections. Implementations must not block.
type Gateway interface {
	Subscribe(code, playerID string)
	Unsubscribe(code, playerID string)
	Broadcast(code string, ev Event)
	Send(playerID string, ev Event)
}

type CodePayload struct {
	Code string `json:"code"`
}

type MessagePayload struct {
	Message string `json:"message"`
}

type RoomUpdatePayload struct {
	Code     string   `json:"code"`
	Level    int      `json:"level"`
	MaxLevel int      `json:"maxLevel"`
	Players  []Player `json:"players"`
}

type PhaseSequencePayload struct {
	Sequence []int `json:"sequence"`
	Level    int   `json:"level"`
	MaxLevel int   `json:"maxLevel"`
}

type PhaseMotorPayload struct {
	TimeLeft int          `json:"timeLeft"`
	Target   *game.Target `json:"target"`
	Level    int          `json:"level"`
}

type MotorTickPayload struct {
	TimeLeft int `json:"timeLeft"`
}

type TargetPayload struct {
	Target *game.Target `json:"target"`
}

type LevelPayload struct {
	Level int `json:"level"`
}

type PlayerResultPayload struct {
	PlayerID string `json:"playerId"`
	Correct  bool   `json:"correct"`
}

type RoundResultsPayload struct {
	Results    []game.Result `json:"results"`
	Level      int           `json:"level"`
	AllCorrect bool          `json:"allCorrect"`
}

type GameOverPayload struct {
	Level   int      `json:"level"`
	Players []Player `json:"players"`
}
