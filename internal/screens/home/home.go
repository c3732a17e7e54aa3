package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/openline/internal/movetree"
	"github.com/abhisek/openline/internal/quiz"
	"github.com/abhisek/openline/internal/router"
	"github.com/abhisek/openline/internal/screen"
	"github.com/abhisek/openline/internal/screens/drill"
	"github.com/abhisek/openline/internal/screens/lines"
	"github.com/abhisek/openline/internal/store"
	"github.com/abhisek/openline/internal/ui/components"
	"github.com/abhisek/openline/internal/ui/theme"
)

// Deps is everything the home screen hands down to the drill.
type Deps struct {
	Index     *movetree.Index
	StudyHash string
	Progress  store.ProgressRepo
	Drills    store.DrillRepo
	Config    quiz.Config
}

// HomeScreen is the entry screen: repertoire summary plus the main menu.
type HomeScreen struct {
	deps       Deps
	menu       components.Menu
	lineCount  int
	coverCount int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{
		deps:      deps,
		lineCount: deps.Index.LeafCount(),
	}
	h.coverCount = coveredLines(deps.Index, deps.Progress, deps.StudyHash)

	items := []components.MenuItem{
		{Label: "START DRILL", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: drill.New(drill.Deps{
					Index:     deps.Index,
					StudyHash: deps.StudyHash,
					Progress:  deps.Progress,
					Drills:    deps.Drills,
					Config:    deps.Config,
				})}
			}
		}},
		{Label: "BROWSE LINES", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: lines.New(deps.Index, deps.Progress, deps.StudyHash),
				}
			}
		}},
		{Label: "RESET PROGRESS", Action: func() tea.Cmd {
			if deps.Progress == nil {
				return nil
			}
			return func() tea.Msg {
				_ = deps.Progress.Clear(context.Background(), deps.StudyHash)
				return progressClearedMsg{}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

// progressClearedMsg refreshes the coverage count after a reset.
type progressClearedMsg struct{}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(progressClearedMsg); ok {
		h.coverCount = 0
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("♟  Openline"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("opening drill trainer"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("Repertoire: %d lines   Covered: %d", h.lineCount, h.coverCount)))
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	return b.String()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// coveredLines counts leaves whose identity is already in stored progress.
func coveredLines(index *movetree.Index, progress store.ProgressRepo, studyHash string) int {
	if progress == nil {
		return 0
	}
	visited, err := progress.Visited(context.Background(), studyHash)
	if err != nil {
		return 0
	}
	set := make(map[string]bool, len(visited))
	for _, h := range visited {
		set[h] = true
	}
	n := 0
	for _, leafHash := range index.LeafOrder {
		if set[leafHash] {
			n++
		}
	}
	return n
}
