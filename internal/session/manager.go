package session

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"memory_party/internal/game"
	"memory_party/internal/logger"
	"memory_party/internal/metrics"
)

// Options configures a Manager. Zero values fall back to production defaults.
type Options struct {
	Clock       Clock
	Rand        game.Rand
	Timings     *game.Timings
	MatchPolicy game.MatchPolicy
	Sink        GameSink
	Codes       CodeGenerator
	IdleTTL     time.Duration
}

// Manager validates player actions and routes them to rooms.
type Manager struct {
	registry *Registry
	deps     *roomDeps
	idleTTL  time.Duration
}

func NewManager(gw Gateway, opts Options) *Manager {
	deps := &roomDeps{
		clock:   opts.Clock,
		gateway: gw,
		rng:     opts.Rand,
		policy:  opts.MatchPolicy,
		sink:    opts.Sink,
	}
	if deps.clock == nil {
		deps.clock = SystemClock{}
	}
	if deps.rng == nil {
		deps.rng = game.DefaultRand()
	}
	if opts.Timings != nil {
		deps.timings = *opts.Timings
	} else {
		deps.timings = game.DefaultTimings()
	}
	if deps.policy == "" {
		deps.policy = game.MatchPrefix
	}

	ttl := opts.IdleTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Manager{
		registry: NewRegistry(opts.Codes),
		deps:     deps,
		idleTTL:  ttl,
	}
}

// CreateRoom opens a room with playerID as its first member.
func (m *Manager) CreateRoom(playerID, name string) (string, error) {
	room, err := m.registry.Create(func(code string) *Room {
		return newRoom(code, m.deps)
	})
	if err != nil {
		logger.Error("room creation failed", "player", playerID, "error", err)
		m.sendError(playerID, "Could not create a room, try again")
		return "", err
	}
	metrics.RoomsActive.Set(float64(m.registry.Len()))

	if !room.join(playerID, cleanName(name)) {
		return "", ErrRoomNotFound
	}
	m.deps.gateway.Send(playerID, Event{Type: EventRoomCreated, Payload: CodePayload{Code: room.Code}})
	return room.Code, nil
}

func (m *Manager) JoinRoom(code, playerID, name string) error {
	room, err := m.lookup(code, playerID)
	if err != nil {
		return err
	}
	if !room.join(playerID, cleanName(name)) {
		m.sendNotFound(playerID)
		return ErrRoomNotFound
	}
	m.deps.gateway.Send(playerID, Event{Type: EventRoomJoined, Payload: CodePayload{Code: room.Code}})
	return nil
}

func (m *Manager) StartGame(code, playerID string) error {
	room, err := m.lookup(code, playerID)
	if err != nil {
		return err
	}
	return m.checkClosed(room.start(playerID), playerID)
}

func (m *Manager) TargetHit(code, playerID string) error {
	room, err := m.lookup(code, playerID)
	if err != nil {
		return err
	}
	return m.checkClosed(room.hit(playerID), playerID)
}

func (m *Manager) SubmitSequence(code, playerID string, seq []int) error {
	room, err := m.lookup(code, playerID)
	if err != nil {
		return err
	}
	return m.checkClosed(room.submit(playerID, seq), playerID)
}

// Disconnect removes playerID from every room it belongs to and deletes
// rooms left empty.
func (m *Manager) Disconnect(playerID string) {
	for _, room := range m.registry.Rooms() {
		removed, empty := room.leave(playerID)
		if !removed || !empty {
			continue
		}
		if m.registry.Remove(room.Code, room) {
			logger.Info("room closed", "room", room.Code, "reason", "empty")
		}
	}
	metrics.RoomsActive.Set(float64(m.registry.Len()))
}

// Snapshot returns a copy of the state of the room with the given code.
func (m *Manager) Snapshot(code string) (Snapshot, bool) {
	room, ok := m.registry.Get(normalizeCode(code))
	if !ok {
		return Snapshot{}, false
	}
	return room.Snapshot(), true
}

func (m *Manager) RoomCount() int {
	return m.registry.Len()
}

// SweepIdle closes rooms that sat idle in the lobby or after game over for
// longer than the idle TTL. It returns how many were closed.
func (m *Manager) SweepIdle() int {
	now := m.deps.clock.Now()
	closed := 0
	for _, room := range m.registry.Rooms() {
		if !room.expire(now, m.idleTTL) {
			continue
		}
		if m.registry.Remove(room.Code, room) {
			closed++
			logger.Info("room closed", "room", room.Code, "reason", "idle")
		}
	}
	if closed > 0 {
		metrics.RoomsActive.Set(float64(m.registry.Len()))
	}
	return closed
}

// StartJanitor runs SweepIdle every interval until ctx is done.
func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.SweepIdle(); n > 0 {
					logger.Info("janitor swept idle rooms", "closed", n)
				}
			}
		}
	}()
}

func (m *Manager) lookup(code, playerID string) (*Room, error) {
	room, ok := m.registry.Get(normalizeCode(code))
	if !ok {
		m.sendNotFound(playerID)
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// checkClosed reports a room that closed between lookup and action the same
// way as a missing one.
func (m *Manager) checkClosed(err error, playerID string) error {
	if errors.Is(err, ErrRoomNotFound) {
		m.sendNotFound(playerID)
	}
	return err
}

func (m *Manager) sendNotFound(playerID string) {
	m.sendError(playerID, "Room not found")
}

func (m *Manager) sendError(playerID, msg string) {
	m.deps.gateway.Send(playerID, Event{Type: EventError, Payload: MessagePayload{Message: msg}})
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return game.DefaultPlayerName
	}
	if utf8.RuneCountInString(name) > game.MaxNameLength {
		name = string([]rune(name)[:game.MaxNameLength])
	}
	return name
}
