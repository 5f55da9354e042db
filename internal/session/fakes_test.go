package session

import (
	"context"
	"sync"
	"time"

	"memory_party/internal/domain"
)

// --- Clock ---

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	id      int
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeClock fires callbacks only from Advance, in deadline order.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	nextID int
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	t := &fakeTimer{clock: c, at: c.now.Add(d), id: c.nextID, fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.id < next.id) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.at
		next.fired = true
		c.mu.Unlock()

		next.fn()
	}
}

// stoppedTimers returns callbacks that were cancelled before firing.
func (c *fakeClock) stoppedTimers() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*fakeTimer
	for _, t := range c.timers {
		if t.stopped {
			out = append(out, t)
		}
	}
	return out
}

// --- Gateway ---

type sentEvent struct {
	code string // set for broadcasts
	to   string // set for direct sends
	ev   Event
}

type recordingGateway struct {
	mu     sync.Mutex
	events []sentEvent
	subs   map[string]map[string]bool
}

func newRecordingGateway() *recordingGateway {
	return &recordingGateway{subs: make(map[string]map[string]bool)}
}

func (g *recordingGateway) Subscribe(code, playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.subs[code] == nil {
		g.subs[code] = make(map[string]bool)
	}
	g.subs[code][playerID] = true
}

func (g *recordingGateway) Unsubscribe(code, playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.subs[code], playerID)
}

func (g *recordingGateway) Broadcast(code string, ev Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, sentEvent{code: code, ev: ev})
}

func (g *recordingGateway) Send(playerID string, ev Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, sentEvent{to: playerID, ev: ev})
}

func (g *recordingGateway) count(typ string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, e := range g.events {
		if e.ev.Type == typ {
			n++
		}
	}
	return n
}

func (g *recordingGateway) last(typ string) (sentEvent, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := len(g.events) - 1; i >= 0; i-- {
		if g.events[i].ev.Type == typ {
			return g.events[i], true
		}
	}
	return sentEvent{}, false
}

func (g *recordingGateway) types() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.events))
	for _, e := range g.events {
		out = append(out, e.ev.Type)
	}
	return out
}

func (g *recordingGateway) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = nil
}

func (g *recordingGateway) subscribed(code, playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.subs[code][playerID]
}

// --- Rand ---

// cycleRand returns 0, 1, 2, ... modulo n.
type cycleRand struct{ next int }

func (r *cycleRand) IntN(n int) int {
	v := r.next % n
	r.next++
	return v
}

// --- GameSink ---

type chanSink struct {
	records chan domain.GameRecord
}

func newChanSink() *chanSink {
	return &chanSink{records: make(chan domain.GameRecord, 4)}
}

func (s *chanSink) RecordGame(_ context.Context, rec domain.GameRecord) error {
	s.records <- rec
	return nil
}
