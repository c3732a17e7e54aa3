// Package quiz drives one drill session over an indexed move tree: it
// enforces turn-taking, validates human moves against the repertoire,
// auto-plays the other side, deduplicates branch choices, and tracks
// coverage until every line has been played once.
package quiz

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/openline/internal/board"
	"github.com/abhisek/openline/internal/movetree"
)

// RejectBranchRepeat is the message set when a legal, in-repertoire move
// repeats an unresolved branch choice.
const RejectBranchRepeat = "Already played at this branch — pick a different move"

// Session is one running drill. All state is owned by the session and
// guarded by its mutex: timer callbacks fire on their own goroutines, and
// every scheduled action carries the epoch current at scheduling time so a
// superseded action discards itself.
type Session struct {
	mu    sync.Mutex
	id    string
	index *movetree.Index
	cfg   Config
	sched Scheduler
	board *board.Board

	phase  Phase
	paused bool
	epoch  uint64

	targetLeaf  string   // hash of the line being drilled
	plyIdx      int      // current ply within the line, 0-based
	furthestPly int      // high-water mark for step-forward
	history     []string // SANs played in this line, up to furthestPly
	pendingNext string   // next leaf during transition / manual advance

	visitedLeaves map[string]bool
	visitedNodes  map[string]bool
	visitedOrder  []string
	branchPicks   map[string]map[string]bool // position key -> chosen SANs

	cancelPending func() // at most one outstanding timer chain

	rejection   string // user-facing, cleared on the next accepted action
	lastAutoOcc string // occurrence key of the latest auto-played move
	hintSAN     string
	hintFEN     string
}

// New creates a session over the index. Call Start to begin the first line.
func New(index *movetree.Index, cfg Config, sched Scheduler) *Session {
	s := &Session{
		id:            uuid.New().String(),
		index:         index,
		cfg:           cfg.withDefaults(),
		sched:         sched,
		board:         board.New(),
		phase:         PhaseIdle,
		visitedLeaves: make(map[string]bool),
		visitedNodes:  make(map[string]bool),
		branchPicks:   make(map[string]map[string]bool),
	}
	s.seedVisited()
	return s
}

// ID returns the session's identity.
func (s *Session) ID() string { return s.id }

// Start begins the first uncovered line. With zero lines the session
// completes immediately.
func (s *Session) Start() {
	s.mu.Lock()
	cbs := s.startLocked()
	s.mu.Unlock()
	run(cbs)
}

func (s *Session) startLocked() []func() {
	next := s.nextUncoveredLeaf()
	if next == "" {
		return s.completeLocked()
	}
	return s.startLeafLocked(next)
}

// HandleDrop attempts the human's move given as source and target squares
// with an optional promotion piece. It returns true when the move was
// accepted. Illegal and out-of-repertoire moves are rejected without a
// message; repeating an unresolved branch choice sets RejectionMessage.
func (s *Session) HandleDrop(src, dst, promo string) bool {
	s.mu.Lock()

	if s.phase != PhaseAwaitingMove || s.paused || !s.humanTurn(s.plyIdx) {
		s.mu.Unlock()
		return false
	}
	plan := s.plan()
	if plan == nil || s.plyIdx >= len(plan.SANPath) {
		s.mu.Unlock()
		return false
	}

	san, err := s.board.PushCoords(src, dst, promo)
	if err != nil {
		// Illegal move; board unchanged.
		s.mu.Unlock()
		return false
	}

	// Stepped-back state accepts only the already-recorded move, as a
	// step-forward. Anything else would fork the recorded history.
	if s.plyIdx < s.furthestPly {
		if san != s.history[s.plyIdx] {
			s.board.Undo()
			s.mu.Unlock()
			return false
		}
		s.plyIdx++
		s.rejection = ""
		s.mu.Unlock()
		return true
	}

	posKey := movetree.PositionKey(s.plyIdx, s.history[:s.plyIdx])
	candidates := s.index.CandidatesAt(posKey)
	_, known := candidates[san]
	if !known && san != plan.SANPath[s.plyIdx] {
		// Legal but outside the repertoire at this point.
		s.board.Undo()
		s.mu.Unlock()
		return false
	}

	if len(candidates) > 1 {
		picks := s.branchPicks[posKey]
		if picks[san] {
			s.board.Undo()
			s.rejection = RejectBranchRepeat
			s.mu.Unlock()
			return false
		}
		if picks == nil {
			picks = make(map[string]bool)
			s.branchPicks[posKey] = picks
		}
		picks[san] = true
		if len(picks) == len(candidates) {
			// Every option chosen once: the cycle restarts.
			delete(s.branchPicks, posKey)
		}
	}

	if known {
		s.retarget(candidates[san])
	}

	cbs := s.commitMoveLocked(san, false)
	s.mu.Unlock()
	run(cbs)
	return true
}

// StepBackward undoes one recorded move without touching the index.
// Disabled while auto-playing, paused, awaiting advance, or completed.
func (s *Session) StepBackward() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseAwaitingMove || s.paused || s.plyIdx == 0 {
		return
	}
	if s.board.Undo() {
		s.plyIdx--
	}
}

// StepForward replays one already-recorded move, bounded by the furthest
// ply reached in this line.
func (s *Session) StepForward() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseAwaitingMove || s.paused || s.plyIdx >= s.furthestPly {
		return
	}
	if _, err := s.board.PushSAN(s.history[s.plyIdx]); err == nil {
		s.plyIdx++
	}
}

// RequestHint previews the expected next move for a short duration. Valid
// only on the human's turn.
func (s *Session) RequestHint() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseAwaitingMove || s.paused || !s.humanTurn(s.plyIdx) {
		return
	}
	plan := s.plan()
	if plan == nil || s.plyIdx >= len(plan.SANPath) {
		return
	}

	expected := plan.SANPath[s.plyIdx]
	preview, err := board.FromFEN(s.board.FEN())
	if err != nil {
		return
	}
	if _, err := preview.PushSAN(expected); err != nil {
		return
	}
	s.hintSAN = expected
	s.hintFEN = preview.FEN()

	epoch := s.epoch
	s.schedule(s.cfg.HintDuration, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if epoch != s.epoch {
			return
		}
		s.hintSAN = ""
		s.hintFEN = ""
	})
}

// ContinueToNextLine starts the pending line in manual-advance mode.
func (s *Session) ContinueToNextLine() {
	s.mu.Lock()
	if s.phase != PhaseAwaitingAdvance || s.paused || s.pendingNext == "" {
		s.mu.Unlock()
		return
	}
	next := s.pendingNext
	s.pendingNext = ""
	cbs := s.startLeafLocked(next)
	s.mu.Unlock()
	run(cbs)
}

// Pause cancels pending timers and suspends auto-play without losing
// progress.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused || s.phase == PhaseCompleted {
		return
	}
	s.paused = true
	s.cancelTimers()
	// Cancelling timers dropped the hint revert, so dismiss the preview too.
	s.hintSAN = ""
	s.hintFEN = ""
}

// Resume re-evaluates whose turn it is and restarts auto-play or the line
// transition when appropriate.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused {
		return
	}
	s.paused = false

	switch s.phase {
	case PhaseTransitioning:
		s.scheduleTransitionLocked()
	case PhaseAutoPlaying:
		plan := s.plan()
		if plan != nil && s.plyIdx < len(plan.SANPath) && !s.humanTurn(s.plyIdx) {
			s.scheduleAutoPlayLocked(len(plan.SANPath) - s.plyIdx)
		} else {
			s.phase = PhaseAwaitingMove
		}
	}
}

// Restart drops all in-session progress and starts over. Externally supplied
// initial progress is re-applied, so coverage resumes at the first line not
// already covered by it.
func (s *Session) Restart() {
	s.mu.Lock()
	s.epoch++
	s.cancelTimers()
	s.paused = false
	s.visitedLeaves = make(map[string]bool)
	s.visitedNodes = make(map[string]bool)
	s.visitedOrder = nil
	s.branchPicks = make(map[string]map[string]bool)
	s.rejection = ""
	s.lastAutoOcc = ""
	s.hintSAN = ""
	s.hintFEN = ""
	s.pendingNext = ""
	s.seedVisited()
	cbs := s.startLocked()
	s.mu.Unlock()
	run(cbs)
}

// Close synchronously cancels all outstanding timers. The session must not
// be used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.cancelTimers()
	s.sched.CancelAll()
}

// --- accessors ---

// FEN returns the current board position.
func (s *Session) FEN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.FEN()
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// IsCompleted reports whether every line has been visited.
func (s *Session) IsCompleted() bool {
	return s.Phase() == PhaseCompleted
}

// IsAutoPlaying reports whether non-human plies are being advanced.
func (s *Session) IsAutoPlaying() bool {
	return s.Phase() == PhaseAutoPlaying
}

// AwaitingAdvance reports whether the session waits for an explicit
// continue.
func (s *Session) AwaitingAdvance() bool {
	return s.Phase() == PhaseAwaitingAdvance
}

// IsPaused reports whether the session is paused.
func (s *Session) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// PlyIndex returns the 0-based ply within the active line.
func (s *Session) PlyIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plyIdx
}

// RemainingLines returns the number of lines not yet covered.
func (s *Session) RemainingLines() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.index.LeafOrder {
		if !s.leafCovered(h) {
			n++
		}
	}
	return n
}

// ExpectedSAN returns the next expected move of the active line, or "" when
// not determinable.
func (s *Session) ExpectedSAN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan := s.plan()
	if plan == nil || s.plyIdx >= len(plan.SANPath) {
		return ""
	}
	return plan.SANPath[s.plyIdx]
}

// ActiveLine returns the SAN path of the line being drilled.
func (s *Session) ActiveLine() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan := s.plan()
	if plan == nil {
		return nil
	}
	return append([]string(nil), plan.SANPath...)
}

// VisitedNodeHashes returns the visited node identities in visit order.
func (s *Session) VisitedNodeHashes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.visitedOrder...)
}

// RejectionMessage returns the user-facing rejection reason, if any. It is
// cleared by the next accepted action.
func (s *Session) RejectionMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rejection
}

// LastAutoPlayedOccurrence returns the occurrence key of the most recent
// auto-played move, for move highlighting. Cleared when the human moves.
func (s *Session) LastAutoPlayedOccurrence() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAutoOcc
}

// HintFEN returns the previewed position while a hint is active, else "".
func (s *Session) HintFEN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hintFEN
}

// HintSAN returns the previewed move while a hint is active, else "".
func (s *Session) HintSAN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hintSAN
}

// --- internals (mutex held) ---

func (s *Session) plan() *movetree.LeafPlan {
	if s.targetLeaf == "" {
		return nil
	}
	return s.index.LeafPlans[s.targetLeaf]
}

// humanTurn applies the parity rule: white moves on even plies.
func (s *Session) humanTurn(ply int) bool {
	whiteToMove := ply%2 == 0
	return whiteToMove == (s.cfg.HumanColor == White)
}

func (s *Session) seedVisited() {
	for _, h := range s.cfg.InitialVisited {
		if !s.visitedNodes[h] {
			s.visitedNodes[h] = true
			s.visitedOrder = append(s.visitedOrder, h)
		}
	}
}

func (s *Session) leafCovered(leafHash string) bool {
	return s.visitedLeaves[leafHash] || s.visitedNodes[leafHash]
}

func (s *Session) nextUncoveredLeaf() string {
	for _, h := range s.index.LeafOrder {
		if !s.leafCovered(h) {
			return h
		}
	}
	return ""
}

// startLeafLocked resets the board and counters for a new line, applies the
// skip-to-branch option, and leaves the session awaiting input or
// auto-playing.
func (s *Session) startLeafLocked(leafHash string) []func() {
	s.epoch++
	s.cancelTimers()
	s.board.Reset()
	s.targetLeaf = leafHash
	s.plyIdx = 0
	s.furthestPly = 0
	s.history = nil
	s.lastAutoOcc = ""
	s.hintSAN = ""
	s.hintFEN = ""

	plan := s.plan()
	if plan == nil || len(plan.SANPath) == 0 {
		s.visitedLeaves[leafHash] = true
		return s.advanceLineLocked()
	}

	var cbs []func()
	if s.cfg.SkipToFirstBranch && s.index.FirstBranchPly > 0 {
		skip := s.index.FirstBranchPly - 1
		if !s.humanTurn(skip) {
			// Never leave the learner watching one idle non-human turn.
			skip++
		}
		if skip > len(plan.SANPath) {
			skip = len(plan.SANPath)
		}
		for i := 0; i < skip; i++ {
			cbs = append(cbs, s.commitMoveLocked(plan.SANPath[s.plyIdx], true)...)
			if s.phase == PhaseCompleted || s.phase == PhaseTransitioning || s.phase == PhaseAwaitingAdvance {
				return cbs
			}
		}
		// Skip plies are played synchronously; drop whatever the commits
		// scheduled and settle the phase below.
		s.cancelTimers()
		plan = s.plan()
	}

	if s.plyIdx >= len(plan.SANPath) {
		return append(cbs, s.advanceLineLocked()...)
	}
	if s.humanTurn(s.plyIdx) {
		s.phase = PhaseAwaitingMove
	} else {
		s.scheduleAutoPlayLocked(len(plan.SANPath) - s.plyIdx)
	}
	return cbs
}

// commitMoveLocked records an accepted or auto-played move: board already
// advanced for human moves, advanced here for auto moves.
func (s *Session) commitMoveLocked(san string, auto bool) []func() {
	if auto {
		if _, err := s.board.PushSAN(san); err != nil {
			// Dead-end line from truncated source text; treat as finished.
			return s.advanceLineLocked()
		}
	}

	movesBefore := append([]string(nil), s.history[:s.plyIdx]...)
	s.history = append(s.history[:s.plyIdx], san)
	s.plyIdx++
	if s.plyIdx > s.furthestPly {
		s.furthestPly = s.plyIdx
	}
	s.rejection = ""
	s.hintSAN = ""
	s.hintFEN = ""
	if auto {
		s.lastAutoOcc = movetree.OccurrenceKey(s.plyIdx-1, movesBefore, san)
	} else {
		s.lastAutoOcc = ""
	}

	var cbs []func()
	plan := s.plan()
	if plan != nil && s.plyIdx <= len(plan.NodeHashPath) {
		cbs = append(cbs, s.markVisitedLocked(plan.NodeHashPath[s.plyIdx-1])...)
	}

	if plan == nil || s.plyIdx >= len(plan.SANPath) {
		return append(cbs, s.advanceLineLocked()...)
	}
	if !s.humanTurn(s.plyIdx) {
		s.scheduleAutoPlayLocked(len(plan.SANPath) - s.plyIdx)
	} else {
		s.phase = PhaseAwaitingMove
	}
	return cbs
}

func (s *Session) markVisitedLocked(nodeHash string) []func() {
	if s.visitedNodes[nodeHash] {
		return nil
	}
	s.visitedNodes[nodeHash] = true
	s.visitedOrder = append(s.visitedOrder, nodeHash)
	if s.cfg.OnNodeVisited != nil {
		cb := s.cfg.OnNodeVisited
		return []func(){func() { cb(nodeHash) }}
	}
	return nil
}

// retarget points the session at a leaf reachable via the chosen move,
// preferring one not yet covered.
func (s *Session) retarget(leaves []string) {
	if len(leaves) == 0 {
		return
	}
	for _, h := range leaves {
		if !s.leafCovered(h) {
			s.targetLeaf = h
			return
		}
	}
	s.targetLeaf = leaves[0]
}

// advanceLineLocked marks the finished line visited and moves on: manual
// advance waits, automatic advance schedules the transition, and an empty
// queue completes the session.
func (s *Session) advanceLineLocked() []func() {
	s.cancelTimers()
	s.visitedLeaves[s.targetLeaf] = true

	next := s.nextUncoveredLeaf()
	if next == "" {
		return s.completeLocked()
	}

	s.pendingNext = next
	if s.cfg.ManualAdvance {
		s.phase = PhaseAwaitingAdvance
		return nil
	}
	s.phase = PhaseTransitioning
	s.scheduleTransitionLocked()
	return nil
}

func (s *Session) completeLocked() []func() {
	s.phase = PhaseCompleted
	s.epoch++
	s.cancelTimers()
	if s.cfg.OnCompleted != nil {
		cb := s.cfg.OnCompleted
		return []func(){cb}
	}
	return nil
}

func (s *Session) scheduleTransitionLocked() {
	epoch := s.epoch
	s.schedule(s.cfg.TransitionDelay, func() {
		s.mu.Lock()
		if epoch != s.epoch || s.paused || s.phase != PhaseTransitioning {
			s.mu.Unlock()
			return
		}
		next := s.pendingNext
		s.pendingNext = ""
		cbs := s.startLeafLocked(next)
		s.mu.Unlock()
		run(cbs)
	})
}

func (s *Session) scheduleAutoPlayLocked(budget int) {
	s.phase = PhaseAutoPlaying
	epoch := s.epoch
	s.schedule(s.cfg.AutoMoveDelay, func() {
		s.autoStep(epoch, budget)
	})
}

// autoStep plays one non-human ply and chains while the turn stays
// non-human and budget remains.
func (s *Session) autoStep(epoch uint64, budget int) {
	s.mu.Lock()
	if epoch != s.epoch || s.paused || s.phase != PhaseAutoPlaying || budget <= 0 {
		s.mu.Unlock()
		return
	}
	plan := s.plan()
	if plan == nil || s.plyIdx >= len(plan.SANPath) {
		s.mu.Unlock()
		return
	}

	san := plan.SANPath[s.plyIdx]
	posKey := movetree.PositionKey(s.plyIdx, s.history[:s.plyIdx])
	candidates := s.index.CandidatesAt(posKey)
	if s.cfg.RandomizeOpponent && len(candidates) > 1 {
		san = s.pickRandom(candidates)
		s.retarget(candidates[san])
	}

	cbs := s.commitMoveLocked(san, true)
	s.mu.Unlock()
	run(cbs)
}

// pickRandom chooses uniformly among branch options that still lead to an
// uncovered line, falling back to all options. Keys are sorted so the same
// seed replays the same drill.
func (s *Session) pickRandom(candidates map[string][]string) string {
	all := make([]string, 0, len(candidates))
	fresh := make([]string, 0, len(candidates))
	for san, leaves := range candidates {
		all = append(all, san)
		for _, h := range leaves {
			if !s.leafCovered(h) {
				fresh = append(fresh, san)
				break
			}
		}
	}
	pool := fresh
	if len(pool) == 0 {
		pool = all
	}
	sort.Strings(pool)
	return pool[s.cfg.Rand.Intn(len(pool))]
}

// schedule replaces the outstanding timer, keeping at most one pending
// chain.
func (s *Session) schedule(d time.Duration, fn func()) {
	s.cancelTimers()
	s.cancelPending = s.sched.Schedule(d, fn)
}

func (s *Session) cancelTimers() {
	if s.cancelPending != nil {
		s.cancelPending()
		s.cancelPending = nil
	}
}

// run invokes callbacks collected while the mutex was held. Completion and
// visit hooks run outside the lock so they may call back into the session.
func run(cbs []func()) {
	for _, cb := range cbs {
		cb()
	}
}
