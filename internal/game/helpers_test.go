package game

import (
	"sort"
	"sync"
	"testing"
	"time"
)

// manualClock is a Scheduler whose time only moves on Advance. Due callbacks
// run synchronously on the caller's goroutine, earliest first.
type manualClock struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*manualTask

	// ignoreStop keeps firing cancelled tasks, the way a timer that already
	// fired but has not yet got the lock would.
	ignoreStop bool
}

type manualTask struct {
	clock   *manualClock
	at      time.Time
	every   time.Duration
	seq     int
	f       func()
	stopped bool
}

func (t *manualTask) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stopped = true
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) After(d time.Duration, f func()) Task {
	return c.add(d, 0, f)
}

func (c *manualClock) Every(d time.Duration, f func()) Task {
	return c.add(d, d, f)
}

func (c *manualClock) add(d, every time.Duration, f func()) Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTask{clock: c, at: c.now.Add(d), every: every, seq: c.seq, f: f}
	c.tasks = append(c.tasks, t)
	return t
}

// Advance moves the clock forward by d, running every callback that falls due.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()
	for {
		c.mu.Lock()
		next := c.nextDue(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.at
		if next.every > 0 {
			next.at = next.at.Add(next.every)
		} else {
			next.stopped = true
			if c.ignoreStop {
				c.drop(next)
			}
		}
		c.mu.Unlock()
		next.f()
	}
}

func (c *manualClock) nextDue(target time.Time) *manualTask {
	var due []*manualTask
	for _, t := range c.tasks {
		if (!t.stopped || c.ignoreStop) && !t.at.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	return due[0]
}

func (c *manualClock) drop(t *manualTask) {
	for i, x := range c.tasks {
		if x == t {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return
		}
	}
}

type sentEvent struct {
	to     string // player id for SendTo, "" for room broadcasts
	except string
	ev     Event
}

type recordingEmitter struct {
	mu   sync.Mutex
	sent []sentEvent
}

func (e *recordingEmitter) Broadcast(roomID string, ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = append(e.sent, sentEvent{ev: ev})
}

func (e *recordingEmitter) BroadcastExcept(roomID, exceptID string, ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = append(e.sent, sentEvent{except: exceptID, ev: ev})
}

func (e *recordingEmitter) SendTo(playerID string, ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = append(e.sent, sentEvent{to: playerID, ev: ev})
}

func (e *recordingEmitter) names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.sent))
	for _, s := range e.sent {
		out = append(out, s.ev.Name())
	}
	return out
}

func (e *recordingEmitter) reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = nil
}

func (e *recordingEmitter) all() []sentEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]sentEvent(nil), e.sent...)
}

func eventsOf[T Event](e *recordingEmitter) []T {
	var out []T
	for _, s := range e.all() {
		if ev, ok := s.ev.(T); ok {
			out = append(out, ev)
		}
	}
	return out
}

type fixedWords []string

func (w fixedWords) Pick(n int) []string {
	if n > len(w) {
		n = len(w)
	}
	return append([]string(nil), w[:n]...)
}

func testSettings() Settings {
	s := DefaultSettings()
	s.GuessInterval = 0
	return s
}

type fixture struct {
	room  *Room
	clock *manualClock
	em    *recordingEmitter
}

func newFixture(t *testing.T, settings Settings, players ...string) *fixture {
	t.Helper()
	clock := newManualClock()
	em := &recordingEmitter{}
	host := ""
	if len(players) > 0 {
		host = players[0]
	}
	r := NewRoom("ROOM42", host, Options{
		Settings:  settings,
		Words:     fixedWords{"apple", "pear", "plum"},
		Emitter:   em,
		Scheduler: clock,
		Now:       clock.Now,
		Seed:      1,
	})
	for _, id := range players {
		if _, err := r.AddPlayer(id, "name-"+id); err != nil {
			t.Fatalf("add player %s: %v", id, err)
		}
	}
	return &fixture{room: r, clock: clock, em: em}
}

// playTurnToTimeout runs one whole turn without guesses and lands on the
// next turn (or game over).
func (f *fixture) playTurnToTimeout(t *testing.T) {
	t.Helper()
	s := f.room.Session()
	f.clock.Advance(200 * time.Millisecond)
	if err := s.SelectWord(s.DrawerID(), "apple"); err != nil {
		t.Fatalf("select word: %v", err)
	}
	f.clock.Advance(60 * time.Second)
	if got := s.Status(); got != StatusScoring {
		t.Fatalf("expected %s after timeout, got %s", StatusScoring, got)
	}
	f.clock.Advance(5 * time.Second)
}

func scoreOf(r *Room, id string) int {
	p, _ := r.Player(id)
	return p.Score
}
