package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/openline/internal/router"
	"github.com/abhisek/openline/internal/screen"
	"github.com/abhisek/openline/internal/ui/layout"
	"github.com/abhisek/openline/internal/ui/theme"
)

// Stats holds the figures shown after a drill ends.
type Stats struct {
	LinesCovered int
	LinesTotal   int
	Accepted     int
	Rejected     int
	Hints        int
	Duration     time.Duration
}

// Accuracy is accepted moves over all attempts, 0 when nothing was played.
func (s Stats) Accuracy() float64 {
	total := s.Accepted + s.Rejected
	if total == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(total)
}

// SummaryScreen displays the drill summary.
type SummaryScreen struct {
	stats Stats
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(stats Stats) *SummaryScreen {
	return &SummaryScreen{stats: stats}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Drill Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	st := s.stats

	var b strings.Builder
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Drill complete!"))
	b.WriteString("\n\n")

	if st.Duration > 0 {
		mins := int(st.Duration.Minutes())
		secs := int(st.Duration.Seconds()) % 60
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("Duration: %d:%02d", mins, secs)))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("Lines covered: %d/%d", st.LinesCovered, st.LinesTotal)))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Moves: %d        Misses: %d        Accuracy: %.0f%%",
		st.Accepted, st.Rejected, st.Accuracy()*100)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n")

	if st.Hints > 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("Hints used: %d", st.Hints)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press Enter to go back"))

	return b.String()
}
