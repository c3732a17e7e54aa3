package components

import "testing"

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestParsePlacement_StartPosition(t *testing.T) {
	grid, ok := parsePlacement(startFEN)
	if !ok {
		t.Fatal("parsePlacement rejected the start position")
	}
	if grid[0][4] != 'K' {
		t.Errorf("e1 = %q, want 'K'", grid[0][4])
	}
	if grid[7][3] != 'q' {
		t.Errorf("d8 = %q, want 'q'", grid[7][3])
	}
	if grid[3][3] != 0 {
		t.Errorf("d4 = %q, want empty", grid[3][3])
	}
}

func TestParsePlacement_Malformed(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP", // 7 ranks
		"9/8/8/8/8/8/8/8 w - - 0 1",          // overfull rank
		"xnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1",
	}
	for _, fen := range bad {
		if _, ok := parsePlacement(fen); ok {
			t.Errorf("parsePlacement(%q) accepted malformed FEN", fen)
		}
	}
}

func TestChessBoard_RendersWithoutPanic(t *testing.T) {
	b := ChessBoard{FEN: startFEN, Highlight: []string{"e2", "e4"}}
	out := b.View()
	if out == "" {
		t.Error("View() returned empty output")
	}

	flipped := ChessBoard{FEN: startFEN, Flipped: true}
	if flipped.View() == "" {
		t.Error("flipped View() returned empty output")
	}
}

func TestChessBoard_InvalidFEN(t *testing.T) {
	b := ChessBoard{FEN: "garbage"}
	if out := b.View(); out == "" {
		t.Error("View() should render a notice for invalid FEN")
	}
}
