package quiz

import (
	"math/rand"
	"time"
)

// Phase is the session's coarse state.
type Phase int

const (
	PhaseIdle            Phase = iota // no active line yet
	PhaseAwaitingMove                 // waiting for the human's move
	PhaseAutoPlaying                  // advancing non-human plies on a timer
	PhaseTransitioning                // brief pause before the next line starts
	PhaseAwaitingAdvance              // manual-advance mode: waiting for continue
	PhaseCompleted                    // every line visited
)

// String returns the phase name for logs and debugging.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingMove:
		return "awaiting-move"
	case PhaseAutoPlaying:
		return "auto-playing"
	case PhaseTransitioning:
		return "transitioning"
	case PhaseAwaitingAdvance:
		return "awaiting-advance"
	case PhaseCompleted:
		return "completed"
	}
	return "unknown"
}

// Color is the side the human drills.
type Color int

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Default timings for the drill's scheduled transitions.
const (
	DefaultAutoMoveDelay   = 450 * time.Millisecond
	DefaultTransitionDelay = 900 * time.Millisecond
	DefaultHintDuration    = 1500 * time.Millisecond
)

// Config carries the per-session options. The session is rebuilt from
// scratch whenever the movetext, the human's color, or the skip setting
// changes; Config is never mutated mid-session.
type Config struct {
	// HumanColor is the side the learner plays. The other side is
	// auto-played.
	HumanColor Color

	// SkipToFirstBranch auto-plays the opening plies up to one short of the
	// first branching point when a line starts.
	SkipToFirstBranch bool

	// RandomizeOpponent makes auto-play pick uniformly among branch options
	// that still lead to an unvisited line, instead of following the
	// current target line.
	RandomizeOpponent bool

	// ManualAdvance pauses after each finished line until the learner
	// explicitly continues.
	ManualAdvance bool

	// AutoMoveDelay, TransitionDelay, and HintDuration override the default
	// timings when non-zero.
	AutoMoveDelay   time.Duration
	TransitionDelay time.Duration
	HintDuration    time.Duration

	// Rand drives opponent randomization. Seeded from the clock when nil.
	Rand *rand.Rand

	// InitialVisited seeds the visited-node set, resuming coverage from
	// persisted progress.
	InitialVisited []string

	// OnCompleted fires once when the last line is finished.
	OnCompleted func()

	// OnNodeVisited fires for every newly visited node identity. Used for
	// persistence; failures there never reach the session.
	OnNodeVisited func(hash string)
}

func (c Config) withDefaults() Config {
	if c.AutoMoveDelay == 0 {
		c.AutoMoveDelay = DefaultAutoMoveDelay
	}
	if c.TransitionDelay == 0 {
		c.TransitionDelay = DefaultTransitionDelay
	}
	if c.HintDuration == 0 {
		c.HintDuration = DefaultHintDuration
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}
