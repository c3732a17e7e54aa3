package drill

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/openline/internal/movetree"
	"github.com/abhisek/openline/internal/quiz"
	"github.com/abhisek/openline/internal/router"
	"github.com/abhisek/openline/internal/screen"
	"github.com/abhisek/openline/internal/screens/summary"
	"github.com/abhisek/openline/internal/store"
	"github.com/abhisek/openline/internal/ui/components"
	"github.com/abhisek/openline/internal/ui/layout"
)

// refreshInterval paces re-renders; auto-play moves land on timer
// goroutines, so the view polls the session rather than receiving pushes.
const refreshInterval = 120 * time.Millisecond

// Deps carries everything a drill needs. Progress and Drills may be nil,
// in which case nothing is persisted.
type Deps struct {
	Index     *movetree.Index
	StudyHash string
	Progress  store.ProgressRepo
	Drills    store.DrillRepo
	Config    quiz.Config
}

// DrillScreen runs one drill session against a repertoire.
type DrillScreen struct {
	deps Deps
	sess *quiz.Session

	input    components.TextInput
	showQuit bool
	finished bool

	startedAt     time.Time
	lastRemaining int

	accepted int
	rejected int
	hints    int
}

var _ screen.Screen = (*DrillScreen)(nil)
var _ screen.KeyHintProvider = (*DrillScreen)(nil)

// New creates a DrillScreen and its session. The session starts on Init.
func New(deps Deps) *DrillScreen {
	d := &DrillScreen{
		deps:  deps,
		input: components.NewTextInput("e2e4", true, 5),
	}

	cfg := deps.Config
	if deps.Progress != nil {
		if saved, err := deps.Progress.Visited(context.Background(), deps.StudyHash); err == nil {
			cfg.InitialVisited = saved
		}
	}
	// Repo writes are safe off the Bubble Tea goroutine; sql.DB handles
	// concurrent use.
	if deps.Progress != nil {
		progress := deps.Progress
		studyHash := deps.StudyHash
		cfg.OnNodeVisited = func(hash string) {
			_ = progress.SaveVisited(context.Background(), studyHash, []string{hash})
		}
	}

	d.sess = quiz.New(deps.Index, cfg, quiz.NewTimerScheduler(nil))
	return d
}

func (d *DrillScreen) Init() tea.Cmd {
	d.startedAt = time.Now()
	d.sess.Start()
	d.lastRemaining = d.sess.RemainingLines()
	return tea.Batch(d.input.Init(), refreshCmd())
}

func (d *DrillScreen) Title() string {
	return "Drill"
}

func (d *DrillScreen) KeyHints() []layout.KeyHint {
	if d.showQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave drill"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if d.sess.AwaitingAdvance() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next line"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Play move"},
		{Key: "?", Description: "Hint"},
		{Key: "←→", Description: "Step"},
		{Key: "P", Description: "Pause"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (d *DrillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshTickMsg:
		return d.handleTick()
	case persistDoneMsg:
		return d, nil
	case tea.KeyMsg:
		return d.handleKey(msg)
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d *DrillScreen) handleTick() (screen.Screen, tea.Cmd) {
	var cmds []tea.Cmd

	// Lines finish on engine timers, so completion is observed here.
	if remaining := d.sess.RemainingLines(); remaining < d.lastRemaining {
		for i := remaining; i < d.lastRemaining; i++ {
			if cmd := d.recordEvent(store.ActionLineCompleted, ""); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		d.lastRemaining = remaining
	}

	if d.sess.IsCompleted() && !d.finished {
		d.finished = true
		cmds = append(cmds, d.recordFinish(), d.openSummary())
		return d, tea.Batch(cmds...)
	}
	if d.finished {
		return d, tea.Batch(cmds...)
	}
	cmds = append(cmds, refreshCmd())
	return d, tea.Batch(cmds...)
}

func (d *DrillScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if d.showQuit {
		switch key {
		case "y", "Y":
			d.teardown()
			return d, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			d.showQuit = false
			if d.sess.IsPaused() {
				d.sess.Resume()
			}
		}
		return d, nil
	}

	switch key {
	case "esc":
		d.sess.Pause()
		d.showQuit = true
		return d, nil
	case "enter":
		if d.sess.AwaitingAdvance() {
			d.sess.ContinueToNextLine()
			return d, nil
		}
		return d, d.submitMove()
	case "left":
		d.sess.StepBackward()
		return d, nil
	case "right":
		d.sess.StepForward()
		return d, nil
	case "?":
		d.sess.RequestHint()
		d.hints++
		return d, d.recordEvent(store.ActionHintRequested, "")
	case "p", "P":
		if d.sess.IsPaused() {
			d.sess.Resume()
		} else {
			d.sess.Pause()
		}
		return d, nil
	case "ctrl+r":
		d.sess.Restart()
		d.accepted, d.rejected, d.hints = 0, 0, 0
		d.lastRemaining = d.sess.RemainingLines()
		d.startedAt = time.Now()
		d.input.Reset()
		return d, nil
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

// submitMove parses the coordinate input (e2e4, e7e8q) and hands it to the
// session as a drop.
func (d *DrillScreen) submitMove() tea.Cmd {
	raw := d.input.Value()
	if len(raw) < 4 || len(raw) > 5 {
		return nil
	}
	src, dst := raw[0:2], raw[2:4]
	promo := ""
	if len(raw) == 5 {
		promo = raw[4:5]
	}

	accepted := d.sess.HandleDrop(src, dst, promo)
	d.input.Reset()
	if accepted {
		d.accepted++
		return d.recordEvent(store.ActionMoveAccepted, raw)
	}
	d.rejected++
	return d.recordEvent(store.ActionMoveRejected, raw)
}

func (d *DrillScreen) recordEvent(action, detail string) tea.Cmd {
	if d.deps.Drills == nil {
		return nil
	}
	repo := d.deps.Drills
	studyHash := d.deps.StudyHash
	sessionID := d.sess.ID()
	return func() tea.Msg {
		_ = repo.Append(context.Background(), studyHash, sessionID, action, detail)
		return nil
	}
}

func (d *DrillScreen) recordFinish() tea.Cmd {
	progress := d.deps.Progress
	drills := d.deps.Drills
	studyHash := d.deps.StudyHash
	sessionID := d.sess.ID()
	visited := d.sess.VisitedNodeHashes()
	return func() tea.Msg {
		var err error
		if progress != nil {
			err = progress.SaveVisited(context.Background(), studyHash, visited)
		}
		if drills != nil {
			_ = drills.Append(context.Background(), studyHash, sessionID, store.ActionDrillFinished, "")
		}
		return persistDoneMsg{Err: err}
	}
}

func (d *DrillScreen) openSummary() tea.Cmd {
	stats := summary.Stats{
		LinesTotal: d.deps.Index.LeafCount(),
		Accepted:   d.accepted,
		Rejected:   d.rejected,
		Hints:      d.hints,
		Duration:   time.Since(d.startedAt),
	}
	stats.LinesCovered = stats.LinesTotal - d.sess.RemainingLines()
	d.teardown()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(stats)}
	}
}

// teardown stops session timers; the screen is about to go away.
func (d *DrillScreen) teardown() {
	d.sess.Close()
}

func refreshCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}
