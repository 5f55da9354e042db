package session

import (
	"time"

	"memory_party/internal/game"
)

// Timer is a pending callback. Stop reports whether it prevented the call.
type Timer interface {
	Stop() bool
}

// Clock abstracts time so phase transitions can be driven in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type timerSlot int

const (
	slotMotorStart timerSlot = iota
	slotTick
	slotRespawn
	slotDeadline
	slotNextLevel
	numSlots
)

func (s timerSlot) String() string {
	switch s {
	case slotMotorStart:
		return "motor_start"
	case slotTick:
		return "tick"
	case slotRespawn:
		return "respawn"
	case slotDeadline:
		return "recall_deadline"
	case slotNextLevel:
		return "next_level"
	default:
		return "unknown"
	}
}

// timerToken identifies what a callback was armed for. A callback only runs
// if the room still matches it when the timer fires.
type timerToken struct {
	round uint64
	phase game.Phase
	seq   uint64
}

// schedule arms slot, replacing whatever was pending there. Must be called
// with r.mu held.
func (r *Room) schedule(slot timerSlot, d time.Duration, fn func()) {
	r.cancel(slot)
	tok := timerToken{round: r.round, phase: r.phase, seq: r.timerSeq[slot]}
	r.timers[slot] = r.deps.clock.AfterFunc(d, func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		if !r.armed(slot, tok) {
			r.log.Debug("stale timer ignored", "slot", slot.String(), "round", tok.round, "phase", tok.phase)
			return
		}
		r.timers[slot] = nil
		fn()
	})
}

// cancel is idempotent. Bumping the sequence number turns a callback that is
// already waiting on r.mu into a no-op.
func (r *Room) cancel(slot timerSlot) {
	if t := r.timers[slot]; t != nil {
		t.Stop()
		r.timers[slot] = nil
	}
	r.timerSeq[slot]++
}

func (r *Room) cancelAll() {
	for s := timerSlot(0); s < numSlots; s++ {
		r.cancel(s)
	}
}

func (r *Room) armed(slot timerSlot, tok timerToken) bool {
	return !r.closed &&
		r.round == tok.round &&
		r.phase == tok.phase &&
		r.timerSeq[slot] == tok.seq
}
