package lines

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/openline/internal/movetree"
)

func testIndex(t *testing.T) *movetree.Index {
	t.Helper()
	idx := movetree.FromMovetext("1. e4 e5 2. Nf3 Nc6 3. Bb5 (3. Bc4 Bc5) 3... a6")
	if idx.LeafCount() != 2 {
		t.Fatalf("fixture has %d lines, want 2", idx.LeafCount())
	}
	return idx
}

func TestCursorNavigation(t *testing.T) {
	l := New(testIndex(t), nil, "study")

	l.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	if l.cursor != 1 {
		t.Errorf("cursor = %d after down, want 1", l.cursor)
	}
	// Bounded at the last line.
	l.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	if l.cursor != 1 {
		t.Errorf("cursor = %d past end, want 1", l.cursor)
	}
	l.Update(tea.KeyPressMsg{Code: 'k', Text: "k"})
	if l.cursor != 0 {
		t.Errorf("cursor = %d after up, want 0", l.cursor)
	}
}

func TestEscPops(t *testing.T) {
	l := New(testIndex(t), nil, "study")
	_, cmd := l.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command from Esc")
	}
}

func TestViewListsEveryLine(t *testing.T) {
	idx := testIndex(t)
	l := New(idx, nil, "study")
	out := l.View(80, 24)

	if !strings.Contains(out, "0/2 lines") {
		t.Errorf("view missing coverage header:\n%s", out)
	}
	if !strings.Contains(out, "Bb5") || !strings.Contains(out, "Bc4") {
		t.Errorf("view missing line moves:\n%s", out)
	}
}

func TestFormatLineNumbersMoves(t *testing.T) {
	got := formatLine([]string{"e4", "e5", "Nf3"}, 80)
	want := "1.e4 e5 2.Nf3"
	if got != want {
		t.Errorf("formatLine = %q, want %q", got, want)
	}
}

func TestFormatLineTruncates(t *testing.T) {
	got := formatLine([]string{"e4", "e5", "Nf3", "Nc6"}, 10)
	if len(got) > 10 || !strings.HasSuffix(got, "...") {
		t.Errorf("formatLine = %q, want truncated with ellipsis", got)
	}
}
