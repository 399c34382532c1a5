// Package bst provides arena-backed binary search trees: a red-black tree
// with incrementally maintained black heights, an unbalanced tree, a splay
// tree and a Tango tree built from red-black auxiliary trees.
package bst

// Item is the payload stored in a tree node.
type Item struct {
	Key   uint32
	Value uint32
}

// Node colors. The zero value is red so freshly allocated nodes start red,
// which is what the insert path expects.
const (
	red   = false
	black = true
)

// nilNode is the reserved arena index standing in for a missing child.
const nilNode = uint32(0)

type node struct {
	item   Item
	parent uint32
	left   uint32
	right  uint32

	// bh is the black height of the red-black subtree rooted here. It is
	// adjusted only at explicit color changes, never by rotation.
	bh uint32

	// depth is the node's position in the fixed reference tree and never
	// changes. minDepth and maxDepth summarize depth over the auxiliary
	// tree subtree rooted here, excluding subtrees of marked children.
	depth    uint32
	minDepth uint32
	maxDepth uint32

	color bool

	// isRoot marks the node as the root of an auxiliary tree. The
	// structural root of a Tango tree always carries the mark.
	isRoot bool
}

// NodeInfo is a read-only snapshot of one node, exposed for visualizers and
// invariant checks without leaking the arena layout.
type NodeInfo struct {
	Item        Item
	Parent      uint32
	Left        uint32
	Right       uint32
	BlackHeight uint32
	Depth       uint32
	MinDepth    uint32
	MaxDepth    uint32
	Red         bool
	AuxRoot     bool
}

// tree holds the state shared by every tree flavor in this package. The
// owning-tree reference of a node is implicit: a node with parent == nilNode
// is the structural root and the container tracks its index.
type tree struct {
	arena    *Arena
	root     uint32
	observer Observer
}

func (t *tree) storage() []node {
	return t.arena.storage
}

// Root returns the arena index of the structural root, or zero when empty.
func (t *tree) Root() uint32 {
	return t.root
}

// NodeInfo snapshots the node at the given arena index.
func (t *tree) NodeInfo(i uint32) NodeInfo {
	n := &t.storage()[i]

	return NodeInfo{
		Item:        n.item,
		Parent:      n.parent,
		Left:        n.left,
		Right:       n.right,
		BlackHeight: n.bh,
		Depth:       n.depth,
		MinDepth:    n.minDepth,
		MaxDepth:    n.maxDepth,
		Red:         n.color == red,
		AuxRoot:     n.isRoot,
	}
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *tree) Height() int {
	return t.heightOf(t.root)
}

func (t *tree) heightOf(i uint32) int {
	if i == nilNode {
		return 0
	}

	nodes := t.storage()

	return 1 + max(t.heightOf(nodes[i].left), t.heightOf(nodes[i].right))
}

// isRootOrNil reports whether the index falls outside the auxiliary tree of
// its parent: either no node at all or the root of another auxiliary tree.
func (t *tree) isRootOrNil(i uint32) bool {
	return i == nilNode || t.storage()[i].isRoot
}

// atBoundary reports whether the node terminates upward walks within its
// auxiliary tree. Plain red-black trees carry no marks, so only the
// structural root qualifies there.
func (t *tree) atBoundary(i uint32) bool {
	n := &t.storage()[i]

	return n.isRoot || n.parent == nilNode
}

func getColor(i uint32, nodes []node) bool {
	if i == nilNode {
		return black
	}

	return nodes[i].color
}

// rotateUp rotates p above its parent. Only child, parent and the structural
// root reference change; colors, black heights and depth summaries are left
// to the caller.
func (t *tree) rotateUp(p uint32) {
	nodes := t.storage()
	q := nodes[p].parent

	if q == nilNode {
		return
	}

	g := nodes[q].parent
	if g != nilNode {
		if nodes[g].left == q {
			nodes[g].left = p
		} else {
			nodes[g].right = p
		}
	} else {
		t.root = p
	}

	nodes[p].parent = g

	if nodes[q].left == p {
		nodes[q].left = nodes[p].right
		if nodes[p].right != nilNode {
			nodes[nodes[p].right].parent = q
		}

		nodes[p].right = q
	} else {
		nodes[q].right = nodes[p].left
		if nodes[p].left != nilNode {
			nodes[nodes[p].left].parent = q
		}

		nodes[p].left = q
	}

	nodes[q].parent = p

	t.observer.TreeEvent(EventRotate, p, nil)
}

// rotateAux rotates p above its parent inside an auxiliary tree. The
// auxiliary root mark travels with the position, and the depth summaries of
// the demoted node are recomputed before those of the promoted one.
func (t *tree) rotateAux(p uint32) {
	nodes := t.storage()
	q := nodes[p].parent

	if q == nilNode {
		return
	}

	t.rotateUp(p)

	nodes[p].isRoot, nodes[q].isRoot = nodes[q].isRoot, nodes[p].isRoot

	t.updateDepths(q)
	t.updateDepths(p)
}

// updateDepths recomputes the min/max depth summaries of p from its own
// fixed depth and the summaries of children inside the same auxiliary tree.
func (t *tree) updateDepths(p uint32) {
	nodes := t.storage()
	minD, maxD := nodes[p].depth, nodes[p].depth

	if l := nodes[p].left; !t.isRootOrNil(l) {
		minD = min(minD, nodes[l].minDepth)
		maxD = max(maxD, nodes[l].maxDepth)
	}

	if r := nodes[p].right; !t.isRootOrNil(r) {
		minD = min(minD, nodes[r].minDepth)
		maxD = max(maxD, nodes[r].maxDepth)
	}

	nodes[p].minDepth = minD
	nodes[p].maxDepth = maxD
}

func doAssert(condition bool) {
	if !condition {
		panic("bst: internal invariant violated")
	}
}
