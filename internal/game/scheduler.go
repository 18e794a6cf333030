package game

import (
	"sync"
	"time"
)

// Task is a handle to scheduled work. Stop is idempotent.
type Task interface {
	Stop()
}

// Scheduler runs deferred and periodic callbacks. Callbacks run on their own
// goroutine and must take whatever lock they need.
type Scheduler interface {
	After(d time.Duration, f func()) Task
	Every(d time.Duration, f func()) Task
}

type timeScheduler struct{}

// RealScheduler is backed by the runtime timers.
func RealScheduler() Scheduler { return timeScheduler{} }

type timerTask struct{ t *time.Timer }

func (tt timerTask) Stop() { tt.t.Stop() }

func (timeScheduler) After(d time.Duration, f func()) Task {
	return timerTask{t: time.AfterFunc(d, f)}
}

type tickerTask struct {
	done chan struct{}
	once sync.Once
}

func (tt *tickerTask) Stop() { tt.once.Do(func() { close(tt.done) }) }

func (timeScheduler) Every(d time.Duration, f func()) Task {
	tt := &tickerTask{done: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-tt.done:
				return
			case <-ticker.C:
				f()
			}
		}
	}()
	return tt
}

type noopTask struct{}

func (noopTask) Stop() {}
