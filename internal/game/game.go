package game

import "time"

// Phase is the stage a room is in. A round walks
// sequence -> motor -> recall -> result.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseSequence Phase = "sequence"
	PhaseMotor    Phase = "motor"
	PhaseRecall   Phase = "recall"
	PhaseResult   Phase = "result"
)

const (
	GridSize = 9
	MaxLevel = 5

	RoomCodeLength = 4
	RoomCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	MaxNameLength     = 24
	DefaultPlayerName = "Player"
)

// Timings holds every delay used by the phase cycle.
type Timings struct {
	CellDisplay    time.Duration // time each sequence cell is shown
	DisplayLead    time.Duration
	MotorBase      int // seconds
	MotorPerLevel  int // extra seconds per effective level
	Tick           time.Duration
	RespawnDelay   time.Duration
	RecallDeadline time.Duration
	NextLevelDelay time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		CellDisplay:    1300 * time.Millisecond,
		DisplayLead:    500 * time.Millisecond,
		MotorBase:      10,
		MotorPerLevel:  2,
		Tick:           time.Second,
		RespawnDelay:   300 * time.Millisecond,
		RecallDeadline: 15 * time.Second,
		NextLevelDelay: 2 * time.Second,
	}
}

// SequenceDisplay is how long clients need to replay a sequence of n cells.
func (t Timings) SequenceDisplay(n int) time.Duration {
	return time.Duration(n)*t.CellDisplay + t.DisplayLead
}

// MotorSeconds is the motor countdown length for an effective level.
func (t Timings) MotorSeconds(effectiveLevel int) int {
	return t.MotorBase + effectiveLevel*t.MotorPerLevel
}

// EffectiveLevel caps level at maxLevel.
func EffectiveLevel(level, maxLevel int) int {
	return min(level, maxLevel)
}
