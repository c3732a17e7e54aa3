package drill

import "time"

// refreshTickMsg drives periodic re-renders while timers advance the
// session off the Bubble Tea goroutine.
type refreshTickMsg time.Time

// persistDoneMsg reports the outcome of saving progress on completion.
type persistDoneMsg struct {
	Err error
}
