// Package movetree merges parsed mainlines into a single tree of positions
// and precomputes the indexes the drill engine queries: leaf plans, the
// coverage order, candidate moves per position, and stable node identities.
package movetree

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Node is one played move in the merged tree. The root carries no move, only
// the starting position.
type Node struct {
	Move    string // canonical SAN, empty at root
	MoveNum int    // 1-based full-move number
	IsWhite bool   // side that played Move
	FEN     string // position after Move

	Children []*Node // sibling moves from this position, merge order
	Parent   *Node   // back-reference only

	// NumLeafChildren is the number of terminal lines under this node,
	// filled in by BuildIndex.
	NumLeafChildren int
}

// Hash is the node's stable identity: a deterministic digest of the position,
// move number, move text, and side. It survives rebuilds, which is what lets
// persisted progress be restored.
func (n *Node) Hash() string {
	return digest(n.FEN + "|" + strconv.Itoa(n.MoveNum) + "|" + n.Move + "|" + strconv.FormatBool(n.IsWhite))
}

// IsLeaf reports whether the node terminates a line.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

func (n *Node) childBySAN(san string) *Node {
	for _, c := range n.Children {
		if c.Move == san {
			return c
		}
	}
	return nil
}

// PositionKey identifies a position by how it was reached: the ply index and
// the moves played before it.
func PositionKey(ply int, movesBefore []string) string {
	return fmt.Sprintf("%d|%s", ply, strings.Join(movesBefore, " "))
}

// OccurrenceKey identifies one specific occurrence of a move within the
// source text, mapping highlighted text to tree nodes and back.
func OccurrenceKey(ply int, movesBefore []string, san string) string {
	return fmt.Sprintf("%d|%s|%s", ply, strings.Join(movesBefore, " "), san)
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
