package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/openline/internal/ui/theme"
)

// pieceGlyphs maps FEN piece letters to figurine glyphs. The filled set is
// used for both colors; color comes from the foreground style.
var pieceGlyphs = map[byte]string{
	'K': "♚", 'Q': "♛", 'R': "♜", 'B': "♝", 'N': "♞", 'P': "♟",
	'k': "♚", 'q': "♛", 'r': "♜", 'b': "♝", 'n': "♞", 'p': "♟",
}

// ChessBoard renders a FEN position as a colored 8x8 grid.
type ChessBoard struct {
	FEN string

	// Flipped renders with the eighth rank at the bottom (black's view).
	Flipped bool

	// Highlight names squares to tint, e.g. hint source and destination.
	Highlight []string
}

// View renders the board with rank and file labels.
func (b ChessBoard) View() string {
	grid, ok := parsePlacement(b.FEN)
	if !ok {
		return theme.Hint.Render("invalid position")
	}

	highlighted := make(map[string]bool, len(b.Highlight))
	for _, sq := range b.Highlight {
		highlighted[sq] = true
	}

	var sb strings.Builder
	for row := 0; row < 8; row++ {
		rank := 7 - row
		if b.Flipped {
			rank = row
		}
		sb.WriteString(theme.Hint.Render(string(rune('1' + rank))))
		sb.WriteString(" ")
		for col := 0; col < 8; col++ {
			file := col
			if b.Flipped {
				file = 7 - col
			}
			sb.WriteString(renderSquare(grid[rank][file], file, rank, highlighted))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("  ")
	for col := 0; col < 8; col++ {
		file := col
		if b.Flipped {
			file = 7 - col
		}
		sb.WriteString(theme.Hint.Render(" " + string(rune('a'+file)) + " "))
	}
	return sb.String()
}

func renderSquare(piece byte, file, rank int, highlighted map[string]bool) string {
	bg := theme.SquareDark
	if (file+rank)%2 == 1 {
		bg = theme.SquareLight
	}
	square := string(rune('a'+file)) + string(rune('1'+rank))
	if highlighted[square] {
		bg = theme.SquareHint
	}

	cell := "   "
	style := lipgloss.NewStyle().Background(bg)
	if piece != 0 {
		fg := theme.PieceBlack
		if piece >= 'A' && piece <= 'Z' {
			fg = theme.PieceWhite
		}
		cell = " " + pieceGlyphs[piece] + " "
		style = style.Foreground(fg)
	}
	return style.Render(cell)
}

// DiffSquares lists the squares whose occupancy differs between two
// positions. Used to highlight a previewed move.
func DiffSquares(fenA, fenB string) []string {
	a, okA := parsePlacement(fenA)
	b, okB := parsePlacement(fenB)
	if !okA || !okB {
		return nil
	}
	var squares []string
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			if a[rank][file] != b[rank][file] {
				squares = append(squares, string(rune('a'+file))+string(rune('1'+rank)))
			}
		}
	}
	return squares
}

// parsePlacement reads the piece-placement field of a FEN string into a
// [rank][file] grid, rank 0 being the first rank. Returns false when the
// field is malformed.
func parsePlacement(fen string) ([8][8]byte, bool) {
	var grid [8][8]byte
	placement, _, _ := strings.Cut(strings.TrimSpace(fen), " ")
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return grid, false
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			if _, ok := pieceGlyphs[c]; !ok || file > 7 {
				return grid, false
			}
			grid[rank][file] = c
			file++
		}
		if file != 8 {
			return grid, false
		}
	}
	return grid, true
}
