package drill

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/openline/internal/quiz"
	"github.com/abhisek/openline/internal/ui/components"
	"github.com/abhisek/openline/internal/ui/theme"
)

func (d *DrillScreen) View(width, height int) string {
	if d.showQuit {
		return renderQuitConfirm(width)
	}

	var b strings.Builder

	b.WriteString(d.renderStatusLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(d.renderBoard(width))
	b.WriteString("\n\n")

	b.WriteString(d.renderMoveRow(width))
	b.WriteString("\n\n")

	b.WriteString(d.renderPrompt(width))

	return b.String()
}

func (d *DrillScreen) renderStatusLine(width int) string {
	total := d.deps.Index.LeafCount()
	covered := total - d.sess.RemainingLines()

	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Lines %d/%d", covered, total))

	var state string
	switch {
	case d.sess.IsPaused():
		state = "paused"
	case d.sess.IsAutoPlaying():
		state = "opponent thinking"
	case d.sess.AwaitingAdvance():
		state = "line done"
	default:
		state = "your move"
	}
	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(state)

	line := left
	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line
}

func (d *DrillScreen) renderBoard(width int) string {
	fen := d.sess.FEN()
	var highlight []string
	if hintFEN := d.sess.HintFEN(); hintFEN != "" {
		highlight = components.DiffSquares(fen, hintFEN)
		fen = hintFEN
	}

	board := components.ChessBoard{
		FEN:       fen,
		Flipped:   d.deps.Config.HumanColor == quiz.Black,
		Highlight: highlight,
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, board.View())
}

// renderMoveRow shows the recorded moves of the current line, marking the
// step position when the learner has stepped back.
func (d *DrillScreen) renderMoveRow(width int) string {
	line := d.sess.ActiveLine()
	ply := d.sess.PlyIndex()
	if len(line) == 0 {
		return ""
	}

	var parts []string
	for i, san := range line {
		if i >= ply {
			break
		}
		if i%2 == 0 {
			parts = append(parts, fmt.Sprintf("%d.%s", i/2+1, san))
		} else {
			parts = append(parts, san)
		}
	}
	row := strings.Join(parts, " ")
	if row == "" {
		row = "—"
	}

	styled := lipgloss.NewStyle().
		Width(min(width-8, 70)).
		Foreground(theme.TextDim).
		Render(row)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, styled)
}

func (d *DrillScreen) renderPrompt(width int) string {
	var b strings.Builder

	if hint := d.sess.HintSAN(); hint != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Render(fmt.Sprintf("Hint: %s", hint)))
		b.WriteString("\n")
	}

	if rej := d.sess.RejectionMessage(); rej != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(rej))
		b.WriteString("\n")
	}

	switch {
	case d.sess.AwaitingAdvance():
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Render("Line complete — press Enter for the next one"))
	case d.sess.IsAutoPlaying():
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("..."))
	default:
		input := lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render("Move: " + d.input.View())
		b.WriteString(input)
	}

	return b.String()
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Leave this drill?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Covered lines are saved."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
