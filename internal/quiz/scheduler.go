package quiz

import (
	"sync"
	"time"
)

// Scheduler is the cancellable timer abstraction behind auto-move delays,
// line transitions, and hint reversion. Schedule returns a cancel function;
// CancelAll drops everything outstanding. The session layers an epoch token
// on top, so a late-firing action from a superseded state discards itself.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
	CancelAll()
}

// TimerScheduler is the production scheduler backed by time.AfterFunc.
// Actions fire on timer goroutines; the session serializes them with its own
// mutex. An optional notify hook runs after every fired action, which is how
// the TUI learns to redraw.
type TimerScheduler struct {
	mu     sync.Mutex
	seq    int
	active map[int]*time.Timer
	notify func()
}

// NewTimerScheduler creates a TimerScheduler. notify may be nil.
func NewTimerScheduler(notify func()) *TimerScheduler {
	return &TimerScheduler{
		active: make(map[int]*time.Timer),
		notify: notify,
	}
}

// Schedule runs fn after d. The returned cancel is safe to call after firing.
func (ts *TimerScheduler) Schedule(d time.Duration, fn func()) func() {
	ts.mu.Lock()
	ts.seq++
	id := ts.seq
	timer := time.AfterFunc(d, func() {
		ts.mu.Lock()
		delete(ts.active, id)
		ts.mu.Unlock()

		fn()
		if ts.notify != nil {
			ts.notify()
		}
	})
	ts.active[id] = timer
	ts.mu.Unlock()

	return func() {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		if t, ok := ts.active[id]; ok {
			t.Stop()
			delete(ts.active, id)
		}
	}
}

// CancelAll stops every outstanding timer synchronously.
func (ts *TimerScheduler) CancelAll() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for id, t := range ts.active {
		t.Stop()
		delete(ts.active, id)
	}
}

// ManualScheduler is a deterministic scheduler for tests: nothing fires until
// FireNext is called.
type ManualScheduler struct {
	entries []*manualEntry
}

type manualEntry struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

// NewManualScheduler creates an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule queues fn without running it.
func (ms *ManualScheduler) Schedule(d time.Duration, fn func()) func() {
	e := &manualEntry{delay: d, fn: fn}
	ms.entries = append(ms.entries, e)
	return func() { e.cancelled = true }
}

// CancelAll marks every queued entry cancelled.
func (ms *ManualScheduler) CancelAll() {
	for _, e := range ms.entries {
		e.cancelled = true
	}
}

// FireNext runs the oldest non-cancelled entry. Returns false when nothing
// was runnable.
func (ms *ManualScheduler) FireNext() bool {
	for len(ms.entries) > 0 {
		e := ms.entries[0]
		ms.entries = ms.entries[1:]
		if e.cancelled {
			continue
		}
		e.fn()
		return true
	}
	return false
}

// FireAll drains the queue, including entries scheduled by fired actions.
// Returns the number of actions run.
func (ms *ManualScheduler) FireAll() int {
	n := 0
	for ms.FireNext() {
		n++
	}
	return n
}

// Pending returns the count of queued, non-cancelled entries.
func (ms *ManualScheduler) Pending() int {
	n := 0
	for _, e := range ms.entries {
		if !e.cancelled {
			n++
		}
	}
	return n
}
