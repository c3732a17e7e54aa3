package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/openline/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with Openline styling.
type TextInput struct {
	Model      textinput.Model
	CoordsOnly bool
	MaxWidth   int
	submitted  bool
	valid      bool
}

// NewTextInput creates a new styled text input. With coordsOnly set, only
// characters valid in a coordinate move (e2e4, e7e8q) are accepted.
func NewTextInput(placeholder string, coordsOnly bool, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}

	return TextInput{
		Model:      ti,
		CoordsOnly: coordsOnly,
		MaxWidth:   maxWidth,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.CoordsOnly {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := kmsg.String()
			if len(key) == 1 && !isCoordChar(key[0]) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func isCoordChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'h':
		return true
	case c >= '1' && c <= '8':
		return true
	}
	// Promotion suffixes.
	return strings.ContainsRune("qrbn", rune(c))
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.submitted {
		if t.valid {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Reset clears the input and any submission mark.
func (t *TextInput) Reset() {
	t.Model.SetValue("")
	t.submitted = false
	t.valid = false
}

// Submit marks the input as submitted with a validation result.
func (t *TextInput) Submit(valid bool) {
	t.submitted = true
	t.valid = valid
}
