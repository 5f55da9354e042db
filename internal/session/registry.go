package session

import (
	crand "crypto/rand"
	"errors"
	"math/big"
	"math/rand/v2"
	"sync"

	"memory_party/internal/game"
)

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrCodeSpaceExhausted = errors.New("could not allocate a free room code")
	ErrNotMember          = errors.New("player is not in this room")
)

const maxCodeAttempts = 64

// CodeGenerator returns a candidate room code.
type CodeGenerator func() string

// GenerateCode creates a random 4-character room code.
func GenerateCode() string {
	code := make([]byte, game.RoomCodeLength)
	for i := range code {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(game.RoomCodeChars))))
		if err != nil {
			code[i] = game.RoomCodeChars[rand.IntN(len(game.RoomCodeChars))]
			continue
		}
		code[i] = game.RoomCodeChars[n.Int64()]
	}
	return string(code)
}

// Registry maps live room codes to rooms.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	generate CodeGenerator
}

func NewRegistry(gen CodeGenerator) *Registry {
	if gen == nil {
		gen = GenerateCode
	}
	return &Registry{
		rooms:    make(map[string]*Room),
		generate: gen,
	}
}

// Create picks a code no live room uses and stores the room built for it.
func (g *Registry) Create(build func(code string) *Room) (*Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for range maxCodeAttempts {
		code := g.generate()
		if _, taken := g.rooms[code]; taken {
			continue
		}
		room := build(code)
		g.rooms[code] = room
		return room, nil
	}
	return nil, ErrCodeSpaceExhausted
}

func (g *Registry) Get(code string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[code]
	return room, ok
}

// Remove deletes code only while it still points at room.
func (g *Registry) Remove(code string, room *Room) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if cur, ok := g.rooms[code]; ok && cur == room {
		delete(g.rooms, code)
		return true
	}
	return false
}

func (g *Registry) Rooms() []*Room {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		out = append(out, r)
	}
	return out
}

func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}
