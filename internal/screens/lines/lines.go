package lines

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/openline/internal/movetree"
	"github.com/abhisek/openline/internal/router"
	"github.com/abhisek/openline/internal/screen"
	"github.com/abhisek/openline/internal/store"
	"github.com/abhisek/openline/internal/ui/layout"
	"github.com/abhisek/openline/internal/ui/theme"
)

// LinesScreen browses every line of the repertoire with its coverage mark.
type LinesScreen struct {
	index   *movetree.Index
	covered map[string]bool
	cursor  int
	offset  int
}

var _ screen.Screen = (*LinesScreen)(nil)
var _ screen.KeyHintProvider = (*LinesScreen)(nil)

// New creates a LinesScreen. Coverage is read once from the progress repo;
// a nil repo shows everything as uncovered.
func New(index *movetree.Index, progress store.ProgressRepo, studyHash string) *LinesScreen {
	covered := make(map[string]bool)
	if progress != nil {
		if visited, err := progress.Visited(context.Background(), studyHash); err == nil {
			set := make(map[string]bool, len(visited))
			for _, h := range visited {
				set[h] = true
			}
			for _, leafHash := range index.LeafOrder {
				if set[leafHash] {
					covered[leafHash] = true
				}
			}
		}
	}
	return &LinesScreen{index: index, covered: covered}
}

func (l *LinesScreen) Init() tea.Cmd {
	return nil
}

func (l *LinesScreen) Title() string {
	return "Lines"
}

func (l *LinesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Browse"},
		{Key: "Esc", Description: "Back"},
	}
}

func (l *LinesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < len(l.index.LeafOrder)-1 {
			l.cursor++
		}
	case "esc", "q":
		return l, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return l, nil
}

func (l *LinesScreen) View(width, height int) string {
	total := len(l.index.LeafOrder)
	if total == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  No lines in this repertoire.")
	}

	var b strings.Builder

	coveredCount := 0
	for _, h := range l.index.LeafOrder {
		if l.covered[h] {
			coveredCount++
		}
	}
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Coverage: %d/%d lines", coveredCount, total)))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	visible := height - 5
	if visible < 1 {
		visible = 1
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+visible {
		l.offset = l.cursor - visible + 1
	}

	end := l.offset + visible
	if end > total {
		end = total
	}
	for i := l.offset; i < end; i++ {
		leafHash := l.index.LeafOrder[i]
		plan := l.index.LeafPlans[leafHash]
		if plan == nil {
			continue
		}

		mark := lipgloss.NewStyle().Foreground(theme.TextDim).Render("·")
		if l.covered[leafHash] {
			mark = lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		}

		line := formatLine(plan.SANPath, width-10)
		prefix := "   "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == l.cursor {
			prefix = " ▸ "
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}

		b.WriteString(fmt.Sprintf("%s%s %s\n", prefix, mark, style.Render(line)))
	}

	return b.String()
}

// formatLine renders a SAN path with move numbers, truncated to maxWidth.
func formatLine(sans []string, maxWidth int) string {
	var parts []string
	for i, san := range sans {
		if i%2 == 0 {
			parts = append(parts, fmt.Sprintf("%d.%s", i/2+1, san))
		} else {
			parts = append(parts, san)
		}
	}
	line := strings.Join(parts, " ")
	if maxWidth > 3 && len(line) > maxWidth {
		line = line[:maxWidth-3] + "..."
	}
	return line
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
