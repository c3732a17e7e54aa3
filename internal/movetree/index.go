package movetree

// LeafPlan is the immutable path from the root to one terminal node.
type LeafPlan struct {
	LeafHash     string
	SANPath      []string // moves from root to the leaf, in order
	NodeHashPath []string // per-ply node identities, parallel to SANPath
}

// Index is the read-only query structure built once per tree.
type Index struct {
	Root *Node

	// LeafPlans maps a terminal node's hash to its plan.
	LeafPlans map[string]*LeafPlan

	// LeafOrder is the deterministic traversal order of leaf hashes. It is
	// the coverage queue: lines are drilled in this order.
	LeafOrder []string

	// PositionMoves maps a position key to the SAN moves recorded there,
	// each with the leaf hashes reachable by playing it.
	PositionMoves map[string]map[string][]string

	// OccurrenceNode maps an occurrence key to the node identity played
	// there.
	OccurrenceNode map[string]string

	// FirstBranchPly is the ply index of the first branching position along
	// play from the root, or -1 when the tree never branches. It feeds the
	// skip-to-branch option.
	FirstBranchPly int
}

// BuildIndex walks the tree once, depth first with children in merge order,
// and fills every index. The root itself is excluded.
func BuildIndex(root *Node) *Index {
	idx := &Index{
		Root:           root,
		LeafPlans:      make(map[string]*LeafPlan),
		PositionMoves:  make(map[string]map[string][]string),
		OccurrenceNode: make(map[string]string),
		FirstBranchPly: firstBranchPly(root),
	}
	for _, child := range root.Children {
		idx.visit(child, nil, nil)
	}
	return idx
}

// visit recurses into node with the SANs and node hashes accumulated above
// it. Path slices are copied per call; fine at repertoire depth.
func (idx *Index) visit(node *Node, sans, hashes []string) {
	sans = append(append([]string(nil), sans...), node.Move)
	hashes = append(append([]string(nil), hashes...), node.Hash())

	if node.IsLeaf() {
		leafHash := node.Hash()
		if _, dup := idx.LeafPlans[leafHash]; !dup {
			idx.LeafPlans[leafHash] = &LeafPlan{
				LeafHash:     leafHash,
				SANPath:      sans,
				NodeHashPath: hashes,
			}
			idx.LeafOrder = append(idx.LeafOrder, leafHash)
			idx.recordPath(sans, hashes, leafHash)
		}
		node.NumLeafChildren = 0
		bumpLeafCounts(node)
		return
	}

	for _, child := range node.Children {
		idx.visit(child, sans, hashes)
	}
}

// recordPath registers every ply of a finished leaf path in the position and
// occurrence indexes.
func (idx *Index) recordPath(sans, hashes []string, leafHash string) {
	for ply := range sans {
		posKey := PositionKey(ply, sans[:ply])
		moves := idx.PositionMoves[posKey]
		if moves == nil {
			moves = make(map[string][]string)
			idx.PositionMoves[posKey] = moves
		}
		if !containsString(moves[sans[ply]], leafHash) {
			moves[sans[ply]] = append(moves[sans[ply]], leafHash)
		}

		occKey := OccurrenceKey(ply, sans[:ply], sans[ply])
		if _, ok := idx.OccurrenceNode[occKey]; !ok {
			idx.OccurrenceNode[occKey] = hashes[ply]
		}
	}
}

// CandidatesAt returns the SAN moves recorded at a position key, or nil when
// the position is off-book.
func (idx *Index) CandidatesAt(posKey string) map[string][]string {
	return idx.PositionMoves[posKey]
}

// LeafCount returns the number of distinct lines.
func (idx *Index) LeafCount() int {
	return len(idx.LeafOrder)
}

func firstBranchPly(root *Node) int {
	node := root
	ply := 0
	for {
		switch {
		case len(node.Children) > 1:
			return ply
		case len(node.Children) == 0:
			return -1
		}
		node = node.Children[0]
		ply++
	}
}

func bumpLeafCounts(leaf *Node) {
	for n := leaf.Parent; n != nil; n = n.Parent {
		n.NumLeafChildren++
	}
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
