// Package board wraps the chess rules library behind the narrow validator
// surface the trainer needs: push a move by SAN or by coordinates, undo,
// inspect history and position. Nothing outside this package imports the
// rules library directly.
package board

import (
	"fmt"
	"strings"

	"github.com/corentings/chess/v2"
)

// Board is a mutable position that validates and records moves.
type Board struct {
	game *chess.Game
	sans []string
}

// New returns a board at the standard starting position.
func New() *Board {
	return &Board{game: chess.NewGame()}
}

// FromFEN returns a throwaway board at an arbitrary position, used for
// non-committing previews. Its history starts empty.
func FromFEN(fen string) (*Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	return &Board{game: chess.NewGame(opt)}, nil
}

// Reset returns the board to the starting position and clears history.
func (b *Board) Reset() {
	b.game = chess.NewGame()
	b.sans = nil
}

// PushSAN plays a move given in algebraic notation and returns its canonical
// SAN encoding (check and mate suffixes normalized). The board is unchanged
// on error.
func (b *Board) PushSAN(san string) (string, error) {
	pos := b.game.Position()
	move, err := chess.AlgebraicNotation{}.Decode(pos, san)
	if err != nil {
		return "", fmt.Errorf("decode %q: %w", san, err)
	}
	canonical := chess.AlgebraicNotation{}.Encode(pos, move)
	if err := b.game.Move(move, nil); err != nil {
		return "", fmt.Errorf("play %q: %w", san, err)
	}
	b.sans = append(b.sans, canonical)
	return canonical, nil
}

// PushCoords plays a move given as source and destination squares ("e2",
// "e4") with an optional promotion piece letter ("q", "n", ...). It returns
// the canonical SAN of the played move. The board is unchanged on error.
func (b *Board) PushCoords(src, dst, promo string) (string, error) {
	uci := strings.ToLower(src + dst + promo)
	pos := b.game.Position()
	move, err := chess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return "", fmt.Errorf("decode %q: %w", uci, err)
	}
	canonical := chess.AlgebraicNotation{}.Encode(pos, move)
	if err := b.game.Move(move, nil); err != nil {
		return "", fmt.Errorf("play %q: %w", uci, err)
	}
	b.sans = append(b.sans, canonical)
	return canonical, nil
}

// Undo takes back the most recent move. Returns false at the start position.
func (b *Board) Undo() bool {
	if len(b.sans) == 0 {
		return false
	}
	if !b.game.GoBack() {
		return false
	}
	b.sans = b.sans[:len(b.sans)-1]
	return true
}

// History returns the SAN moves played so far, in order.
func (b *Board) History() []string {
	return append([]string(nil), b.sans...)
}

// Plies returns the number of moves played.
func (b *Board) Plies() int {
	return len(b.sans)
}

// FEN returns the current position.
func (b *Board) FEN() string {
	return b.game.FEN()
}

// WhiteToMove reports whether white has the move.
func (b *Board) WhiteToMove() bool {
	return b.game.Position().Turn() == chess.White
}
