package movetree

import (
	"reflect"
	"testing"

	"github.com/abhisek/openline/internal/board"
	"github.com/abhisek/openline/internal/pgn"
)

const ruyLopez = "1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 4. Ba4 b5 ( 4... Nf6 5. O-O Nxe4 6. Re1 Nd6 ) 5. Bb3 Nf6 6. O-O"

func TestBuild_SingleLine(t *testing.T) {
	root := Build([]string{"e4 e5 Nf3"})

	if len(root.Children) != 1 {
		t.Fatalf("root children = %d, want 1", len(root.Children))
	}
	n := root.Children[0]
	if n.Move != "e4" || n.MoveNum != 1 || !n.IsWhite {
		t.Errorf("first node = %q move %d white=%t, want e4 1 true", n.Move, n.MoveNum, n.IsWhite)
	}
	n = n.Children[0]
	if n.Move != "e5" || n.MoveNum != 1 || n.IsWhite {
		t.Errorf("second node = %q move %d white=%t, want e5 1 false", n.Move, n.MoveNum, n.IsWhite)
	}
	n = n.Children[0]
	if n.Move != "Nf3" || n.MoveNum != 2 || !n.IsWhite {
		t.Errorf("third node = %q move %d white=%t, want Nf3 2 true", n.Move, n.MoveNum, n.IsWhite)
	}
	if !n.IsLeaf() {
		t.Error("third node should be a leaf")
	}
}

func TestBuild_MergesSharedPrefix(t *testing.T) {
	idx := FromMovetext(ruyLopez)

	if idx.LeafCount() != 2 {
		t.Fatalf("leaf count = %d, want 2", idx.LeafCount())
	}

	// The lines share e4 e5 Nf3 Nc6 Bb5 a6 Ba4 as a single spine, then
	// diverge into b5 and Nf6.
	node := idx.Root
	spine := 0
	for len(node.Children) == 1 {
		node = node.Children[0]
		spine++
	}
	if spine != 7 {
		t.Errorf("shared spine length = %d plies, want 7", spine)
	}
	if len(node.Children) != 2 {
		t.Fatalf("branch width = %d, want 2", len(node.Children))
	}
	if node.Children[0].Move != "b5" || node.Children[1].Move != "Nf6" {
		t.Errorf("branch moves = %q, %q; want b5, Nf6 in merge order",
			node.Children[0].Move, node.Children[1].Move)
	}
}

func TestBuild_TruncatesIllegalMove(t *testing.T) {
	// Qh5 is fine, Qxh7 is not a legal follow-up for black's absent queen.
	root := Build([]string{"e4 e5 Qh5 Ke7 nonsense Nf3"})

	depth := 0
	for n := root; len(n.Children) > 0; n = n.Children[0] {
		depth++
	}
	if depth != 4 {
		t.Errorf("kept prefix depth = %d, want 4 (truncated at the bad token)", depth)
	}
}

func TestBuildIndex_LeafOrderMatchesMainlineOrder(t *testing.T) {
	lines := pgn.ExtractMainlines(ruyLopez)
	idx := BuildIndex(Build(lines))

	if len(idx.LeafOrder) != len(lines) {
		t.Fatalf("leaf count = %d, want %d", len(idx.LeafOrder), len(lines))
	}
	for i, leafHash := range idx.LeafOrder {
		plan := idx.LeafPlans[leafHash]
		if plan == nil {
			t.Fatalf("no plan for leaf %d", i)
		}
		got := joinSANs(plan.SANPath)
		if got != lines[i] {
			t.Errorf("leaf %d path = %q, want %q", i, got, lines[i])
		}
	}
}

func TestLeafPlan_RoundTrip(t *testing.T) {
	idx := FromMovetext(ruyLopez)

	for _, leafHash := range idx.LeafOrder {
		plan := idx.LeafPlans[leafHash]
		b := board.New()
		for _, san := range plan.SANPath {
			canonical, err := b.PushSAN(san)
			if err != nil {
				t.Fatalf("replay %q: %v", san, err)
			}
			if canonical != san {
				t.Errorf("replayed SAN = %q, want %q (paths must be canonical)", canonical, san)
			}
		}
	}
}

func TestBuildIndex_PositionMoves(t *testing.T) {
	idx := FromMovetext(ruyLopez)

	shared := []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6", "Ba4"}
	posKey := PositionKey(7, shared)
	moves := idx.CandidatesAt(posKey)
	if len(moves) != 2 {
		t.Fatalf("candidates at branch = %d, want 2 (%v)", len(moves), moves)
	}
	for _, san := range []string{"b5", "Nf6"} {
		if len(moves[san]) != 1 {
			t.Errorf("leaves via %q = %d, want 1", san, len(moves[san]))
		}
	}

	// Before the branch there is a single candidate leading to both leaves.
	moves = idx.CandidatesAt(PositionKey(0, nil))
	if len(moves) != 1 || len(moves["e4"]) != 2 {
		t.Errorf("candidates at start = %v, want e4 -> both leaves", moves)
	}
}

func TestBuildIndex_OccurrenceNodes(t *testing.T) {
	idx := FromMovetext(ruyLopez)

	occ := OccurrenceKey(0, nil, "e4")
	nodeHash, ok := idx.OccurrenceNode[occ]
	if !ok {
		t.Fatal("no occurrence entry for the first move")
	}
	if nodeHash != idx.Root.Children[0].Hash() {
		t.Error("occurrence node hash does not match the e4 node")
	}
}

func TestBuildIndex_FirstBranchPly(t *testing.T) {
	idx := FromMovetext(ruyLopez)
	if idx.FirstBranchPly != 7 {
		t.Errorf("FirstBranchPly = %d, want 7", idx.FirstBranchPly)
	}

	idx = FromMovetext("1. e4 e5 2. Nf3")
	if idx.FirstBranchPly != -1 {
		t.Errorf("FirstBranchPly = %d for branchless text, want -1", idx.FirstBranchPly)
	}

	idx = FromMovetext("1. e4 ( 1. d4 )")
	if idx.FirstBranchPly != 0 {
		t.Errorf("FirstBranchPly = %d for root branch, want 0", idx.FirstBranchPly)
	}
}

func TestNodeHash_StableAcrossRebuilds(t *testing.T) {
	a := FromMovetext(ruyLopez)
	b := FromMovetext(ruyLopez)

	if !reflect.DeepEqual(a.LeafOrder, b.LeafOrder) {
		t.Error("leaf order differs between identical rebuilds")
	}
	for hash, plan := range a.LeafPlans {
		other := b.LeafPlans[hash]
		if other == nil {
			t.Fatalf("leaf %s missing from rebuild", hash)
		}
		if !reflect.DeepEqual(plan.NodeHashPath, other.NodeHashPath) {
			t.Errorf("node hash path differs for leaf %s", hash)
		}
	}
}

func TestBuildIndex_EmptyTree(t *testing.T) {
	idx := FromMovetext("")

	if idx.LeafCount() != 0 {
		t.Errorf("leaf count = %d for empty text, want 0", idx.LeafCount())
	}
	if idx.FirstBranchPly != -1 {
		t.Errorf("FirstBranchPly = %d, want -1", idx.FirstBranchPly)
	}
}

func TestNumLeafChildren(t *testing.T) {
	idx := FromMovetext(ruyLopez)

	if got := idx.Root.Children[0].NumLeafChildren; got != 2 {
		t.Errorf("e4 NumLeafChildren = %d, want 2", got)
	}
}

func joinSANs(sans []string) string {
	out := ""
	for i, s := range sans {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}

func TestTruncations(t *testing.T) {
	trs := Truncations([]string{"e4 e5 Nf3", "e4 Ke7 e5"})

	if len(trs) != 1 {
		t.Fatalf("truncations = %d, want 1", len(trs))
	}
	got := trs[0]
	want := Truncation{Line: 1, Ply: 1, SAN: "Ke7"}
	if got != want {
		t.Errorf("truncation = %+v, want %+v", got, want)
	}
}
