package session

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"memory_party/internal/domain"
	"memory_party/internal/game"
	"memory_party/internal/logger"
)

// GameSink stores finished games. RecordGame runs off the room lock.
type GameSink interface {
	RecordGame(ctx context.Context, rec domain.GameRecord) error
}

type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Level int    `json:"level"`
}

// roomDeps are shared by every room of a Manager.
type roomDeps struct {
	clock   Clock
	gateway Gateway
	rng     game.Rand
	timings game.Timings
	policy  game.MatchPolicy
	sink    GameSink
}

// Room is one game session. Every field below mu is guarded by it; action
// handlers and timer callbacks all run under it.
type Room struct {
	Code string

	mu   sync.Mutex
	deps *roomDeps
	log  *slog.Logger

	gridSize int
	maxLevel int
	level    int
	phase    game.Phase
	round    uint64
	finished bool

	sequence []int
	players  map[string]*Player
	order    []string

	motorScores   map[string]int
	reactionTimes map[string][]int64
	submissions   map[string]bool

	target        *game.Target
	targetSpawned time.Time
	timeLeft      int

	timers   [numSlots]Timer
	timerSeq [numSlots]uint64

	closed       bool
	createdAt    time.Time
	lastActivity time.Time
}

func newRoom(code string, deps *roomDeps) *Room {
	now := deps.clock.Now()
	return &Room{
		Code:          code,
		deps:          deps,
		log:           logger.Room(code),
		gridSize:      game.GridSize,
		maxLevel:      game.MaxLevel,
		level:         1,
		phase:         game.PhaseLobby,
		players:       make(map[string]*Player),
		motorScores:   make(map[string]int),
		reactionTimes: make(map[string][]int64),
		submissions:   make(map[string]bool),
		createdAt:     now,
		lastActivity:  now,
	}
}

// Snapshot is a copy of a room's state.
type Snapshot struct {
	Code     string
	Phase    game.Phase
	Level    int
	MaxLevel int
	Round    uint64
	Finished bool
	Sequence []int
	Players  []Player
	TimeLeft int
	Target   *game.Target
}

func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Snapshot{
		Code:     r.Code,
		Phase:    r.phase,
		Level:    r.level,
		MaxLevel: r.maxLevel,
		Round:    r.round,
		Finished: r.finished,
		Sequence: slices.Clone(r.sequence),
		Players:  r.playerList(),
		TimeLeft: r.timeLeft,
	}
	if r.target != nil {
		t := *r.target
		s.Target = &t
	}
	return s
}

// join adds a fresh player record. It reports false if the room was closed
// in the meantime.
func (r *Room) join(playerID, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	r.touch()

	if _, ok := r.players[playerID]; !ok {
		r.order = append(r.order, playerID)
	}
	r.players[playerID] = &Player{ID: playerID, Name: name, Score: 0, Level: 1}
	r.deps.gateway.Subscribe(r.Code, playerID)
	r.broadcastRoomUpdate()

	r.log.Info("player joined", "player", playerID, "name", name, "players", len(r.players))
	return true
}

// leave removes the player. empty is true when the room was closed by it.
func (r *Room) leave(playerID string) (removed, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false, false
	}
	if _, ok := r.players[playerID]; !ok {
		return false, false
	}

	delete(r.players, playerID)
	r.order = slices.DeleteFunc(r.order, func(id string) bool { return id == playerID })
	r.deps.gateway.Unsubscribe(r.Code, playerID)
	r.log.Info("player left", "player", playerID, "players", len(r.players))

	if len(r.players) == 0 {
		r.close()
		return true, true
	}

	r.broadcastRoomUpdate()

	if r.phase == game.PhaseRecall && r.allSubmitted() {
		r.finalize(triggerDeparture)
	}
	return true, false
}

func (r *Room) start(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	if !r.isMember(playerID) {
		return ErrNotMember
	}
	r.touch()

	r.level = min(r.level, r.maxLevel)
	if r.level >= r.maxLevel {
		r.broadcast(EventGameOver, GameOverPayload{Level: r.level, Players: r.playerList()})
		return nil
	}

	r.log.Info("game started", "player", playerID, "level", r.level)
	r.beginRound()
	return nil
}

func (r *Room) hit(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	if r.phase != game.PhaseMotor {
		return nil
	}
	if !r.isMember(playerID) {
		return ErrNotMember
	}
	r.touch()

	var reactionMs int64
	if !r.targetSpawned.IsZero() {
		reactionMs = max(0, r.deps.clock.Now().Sub(r.targetSpawned).Milliseconds())
	}
	r.motorScores[playerID]++
	r.reactionTimes[playerID] = append(r.reactionTimes[playerID], reactionMs)

	r.target = nil
	r.broadcast(EventTargetClear, nil)
	r.schedule(slotRespawn, r.deps.timings.RespawnDelay, r.respawnTarget)
	return nil
}

func (r *Room) submit(playerID string, seq []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	if r.phase != game.PhaseRecall {
		return nil
	}
	if !r.isMember(playerID) {
		return ErrNotMember
	}
	r.touch()

	correct := r.deps.policy.Matches(r.sequence, seq)
	r.submissions[playerID] = correct
	r.broadcast(EventPlayerResult, PlayerResultPayload{PlayerID: playerID, Correct: correct})

	if r.allSubmitted() {
		r.finalize(triggerAllSubmitted)
	}
	return nil
}

// expire closes the room if nobody acted on it for ttl and no round is
// running.
func (r *Room) expire(now time.Time, ttl time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || now.Sub(r.lastActivity) < ttl {
		return false
	}
	if r.phase != game.PhaseLobby && !r.finished {
		return false
	}

	r.broadcast(EventInfo, MessagePayload{Message: "Room closed after inactivity"})
	for _, id := range r.order {
		r.deps.gateway.Unsubscribe(r.Code, id)
	}
	r.close()
	return true
}

func (r *Room) close() {
	r.closed = true
	r.cancelAll()
}

func (r *Room) isMember(playerID string) bool {
	_, ok := r.players[playerID]
	return ok
}

func (r *Room) allSubmitted() bool {
	if len(r.players) == 0 {
		return false
	}
	for id := range r.players {
		if _, ok := r.submissions[id]; !ok {
			return false
		}
	}
	return true
}

func (r *Room) touch() {
	r.lastActivity = r.deps.clock.Now()
}

func (r *Room) playerList() []Player {
	out := make([]Player, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.players[id]; ok {
			out = append(out, *p)
		}
	}
	return out
}

func (r *Room) effectiveLevel() int {
	return game.EffectiveLevel(r.level, r.maxLevel)
}

func (r *Room) broadcast(typ string, payload any) {
	r.deps.gateway.Broadcast(r.Code, Event{Type: typ, Payload: payload})
}

func (r *Room) broadcastRoomUpdate() {
	r.broadcast(EventRoomUpdate, RoomUpdatePayload{
		Code:     r.Code,
		Level:    r.effectiveLevel(),
		MaxLevel: r.maxLevel,
		Players:  r.playerList(),
	})
}
