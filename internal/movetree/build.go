package movetree

import (
	"strings"

	"github.com/abhisek/openline/internal/board"
	"github.com/abhisek/openline/internal/pgn"
)

// Build replays each mainline through a fresh validator from the starting
// position, merging shared prefixes into one tree. Node move text is the
// validator's canonical SAN, so identical moves written differently in the
// source still merge.
//
// A move the validator rejects truncates that mainline's contribution at
// that ply: nodes built up to it remain, and no error is reported. Malformed
// branches therefore show up as short dead-end lines.
func Build(mainlines []string) *Node {
	root := &Node{FEN: board.New().FEN()}

	for _, line := range mainlines {
		b := board.New()
		cur := root
		for i, san := range strings.Fields(line) {
			canonical, err := b.PushSAN(san)
			if err != nil {
				break
			}
			child := cur.childBySAN(canonical)
			if child == nil {
				child = &Node{
					Move:    canonical,
					MoveNum: i/2 + 1,
					IsWhite: i%2 == 0,
					FEN:     b.FEN(),
					Parent:  cur,
				}
				cur.Children = append(cur.Children, child)
			}
			cur = child
		}
	}

	return root
}

// FromMovetext is the full pipeline: tokenize, expand variations, build the
// tree, and index it.
func FromMovetext(movetext string) *Index {
	return BuildIndex(Build(pgn.ExtractMainlines(movetext)))
}

// Truncation reports a move the validator rejected while building a line.
type Truncation struct {
	Line int    // mainline index
	Ply  int    // ply of the rejected move
	SAN  string // the rejected token as written
}

// Truncations replays each mainline and lists the first rejected move per
// line. Build silently drops these; callers that want to warn use this.
func Truncations(mainlines []string) []Truncation {
	var out []Truncation
	for li, line := range mainlines {
		b := board.New()
		for i, san := range strings.Fields(line) {
			if _, err := b.PushSAN(san); err != nil {
				out = append(out, Truncation{Line: li, Ply: i, SAN: san})
				break
			}
		}
	}
	return out
}
