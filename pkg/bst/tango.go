package bst

import (
	"math/bits"
)

// TangoTree is an O(log log n)-competitive binary search tree over a fixed
// key universe. The keys form a perfect reference tree whose preferred paths
// are each stored as a red-black auxiliary tree; a search walks the physical
// tree and restructures the auxiliary trees it crosses with cut and join so
// the walked path ends up preferred.
//
// The key universe is fixed at construction. Lookups of keys outside the
// universe are a caller bug and panic.
type TangoTree struct {
	tree
	count int
}

// NewTangoTree builds a Tango tree over the given items, which must be
// sorted by strictly increasing key. Every node starts as its own auxiliary
// tree of one.
func NewTangoTree(arena *Arena, items []Item, opts ...Option) (*TangoTree, error) {
	if len(items) == 0 {
		return nil, ErrEmptyUniverse
	}

	for i := 1; i < len(items); i++ {
		if items[i].Key <= items[i-1].Key {
			return nil, ErrUnsortedUniverse
		}
	}

	t := &TangoTree{
		tree:  tree{arena: arena, observer: nopObserver{}},
		count: len(items),
	}
	for _, opt := range opts {
		opt(&t.tree)
	}

	t.root = t.buildPerfect(items, nilNode, 0)

	return t, nil
}

// Len returns the size of the key universe.
func (t *TangoTree) Len() int {
	return t.count
}

// perfectSplit returns the index of the root key when n sorted keys are laid
// out as a perfect binary search tree with all missing leaves on the lowest
// level.
func perfectSplit(n int) int {
	x := 1 << (bits.Len(uint(n)) - 1)
	if x/2-1 <= n-x {
		return x - 1
	}

	return n - x/2
}

func (t *TangoTree) buildPerfect(items []Item, parent uint32, depth uint32) uint32 {
	if len(items) == 0 {
		return nilNode
	}

	mid := perfectSplit(len(items))
	p := t.arena.malloc()

	left := t.buildPerfect(items[:mid], p, depth+1)
	right := t.buildPerfect(items[mid+1:], p, depth+1)

	// The arena may have grown during recursion, so the slice is fetched
	// only now.
	nodes := t.storage()
	nodes[p].item = items[mid]
	nodes[p].parent = parent
	nodes[p].left = left
	nodes[p].right = right
	nodes[p].color = black
	nodes[p].bh = 1
	nodes[p].depth = depth
	nodes[p].minDepth = depth
	nodes[p].maxDepth = depth
	nodes[p].isRoot = true

	return p
}

// Search returns the value stored under the key and restructures the
// preferred paths so the walked path becomes a single auxiliary tree with
// the accessed node promoted to the root of its own. Searching a key outside
// the universe panics.
func (t *TangoTree) Search(key uint32) uint32 {
	nodes := t.storage()
	p := t.root

	for nodes[p].item.Key != key {
		if nodes[p].item.Key < key {
			p = nodes[p].right
		} else {
			p = nodes[p].left
		}

		doAssert(p != nilNode)

		if !nodes[p].isRoot {
			continue
		}

		// The walk crossed into the auxiliary tree rooted at p. The path
		// above p stops being preferred below the branch depth, so the
		// tree above is cut there and joined with p's tree.
		d := nodes[p].minDepth - 1
		p = nodes[p].parent
		p = t.cut(p, d)
		p = t.auxSearch(key, p)

		switch {
		case nodes[p].item.Key < key:
			p = nodes[p].right
		case nodes[p].item.Key > key:
			p = nodes[p].left
		default:
			panic("bst: search key found on an auxiliary boundary")
		}

		p = t.join(p)
	}

	value := nodes[p].item.Value

	// Point the preferred path below the accessed node at its predecessor.
	t.joinPredecessor(key, p)

	p = t.auxRoot(p)
	p = t.auxSearch(key, p)
	t.promote(key, p)

	return value
}

// joinPredecessor performs the terminal restructuring of a search: the
// auxiliary tree is cut below the accessed node and, when the predecessor
// path hangs off a marked child, joined with it.
func (t *TangoTree) joinPredecessor(key uint32, p uint32) {
	nodes := t.storage()

	p = t.cut(p, nodes[p].depth)
	p = t.auxSearch(key, p)

	if nodes[p].left == nilNode {
		return
	}

	q := nodes[p].left
	for !nodes[q].isRoot && nodes[q].right != nilNode {
		q = nodes[q].right
	}

	if nodes[q].isRoot {
		t.join(q)
	}
}

// promote makes the accessed node the root of its own auxiliary tree of
// one, recording it as the most recently accessed key.
func (t *TangoTree) promote(key uint32, p uint32) {
	nodes := t.storage()

	d := nodes[p].depth
	p = t.cut(p, d)
	p = t.auxSearch(key, p)

	if nodes[p].isRoot {
		// Already the root of its auxiliary tree; for depth zero the
		// first cut shrinks the top path to exactly the accessed node.
		return
	}

	doAssert(d > 0)
	t.cut(p, d-1)
}

// auxSearch walks toward the key inside one auxiliary tree, stopping at the
// last node before a boundary.
func (t *TangoTree) auxSearch(key uint32, root uint32) uint32 {
	nodes := t.storage()
	p := root

	for nodes[p].item.Key != key {
		if nodes[p].item.Key < key {
			if q := nodes[p].right; !t.isRootOrNil(q) {
				p = q

				continue
			}
		} else {
			if q := nodes[p].left; !t.isRootOrNil(q) {
				p = q

				continue
			}
		}

		break
	}

	return p
}

// auxRoot climbs to the root of the auxiliary tree containing p.
func (t *TangoTree) auxRoot(p uint32) uint32 {
	nodes := t.storage()

	for !nodes[p].isRoot && nodes[p].parent != nilNode {
		p = nodes[p].parent
	}

	return p
}

// findPredecessor returns the in-order predecessor of p within its
// auxiliary tree. The second result is false when none exists; p is then
// returned unchanged.
func (t *TangoTree) findPredecessor(p uint32) (uint32, bool) {
	nodes := t.storage()

	if l := nodes[p].left; !t.isRootOrNil(l) {
		q := l
		for !t.isRootOrNil(nodes[q].right) {
			q = nodes[q].right
		}

		return q, true
	}

	for q := p; ; {
		if t.atBoundary(q) {
			return p, false
		}

		parent := nodes[q].parent
		if q == nodes[parent].right {
			return parent, true
		}

		q = parent
	}
}

// findSuccessor mirrors findPredecessor.
func (t *TangoTree) findSuccessor(p uint32) (uint32, bool) {
	nodes := t.storage()

	if r := nodes[p].right; !t.isRootOrNil(r) {
		q := r
		for !t.isRootOrNil(nodes[q].left) {
			q = nodes[q].left
		}

		return q, true
	}

	for q := p; ; {
		if t.atBoundary(q) {
			return p, false
		}

		parent := nodes[q].parent
		if q == nodes[parent].left {
			return parent, true
		}

		q = parent
	}
}

// setRootMark flips the auxiliary root mark of p and propagates the depth
// summary change up to the enclosing auxiliary root.
func (t *TangoTree) setRootMark(p uint32, mark bool) {
	nodes := t.storage()
	nodes[p].isRoot = mark

	if parent := nodes[p].parent; parent != nilNode {
		t.updateDepthsUp(parent)
	}

	t.observer.TreeEvent(EventMark, p, nil)
}

// updateDepthsUp recomputes depth summaries from p up to its auxiliary
// root.
func (t *TangoTree) updateDepthsUp(p uint32) {
	nodes := t.storage()

	t.updateDepths(p)

	for !nodes[p].isRoot && nodes[p].parent != nilNode {
		p = nodes[p].parent
		t.updateDepths(p)
	}
}

// cut splits the auxiliary tree containing p at the reference depth d: the
// nodes deeper than d become a separate marked auxiliary tree, the rest stay
// behind as the top path. Returns the root of the top path.
//
// The deep nodes of one path form a contiguous key interval, so the cut
// boils down to finding the interval's boundary neighbors, splitting at
// them, marking the interval root and concatenating back.
func (t *TangoTree) cut(p uint32, d uint32) uint32 {
	t.observer.TreeEvent(EventCutStart, p, nil)

	nodes := t.storage()
	p = t.auxRoot(p)

	if nodes[p].maxDepth <= d {
		// Nothing below the cut depth.
		t.observer.TreeEvent(EventCutEnd, p, nil)

		return p
	}

	// Find l, the minimal node deeper than d.
	for {
		if l := nodes[p].left; !t.isRootOrNil(l) && nodes[l].maxDepth > d {
			p = l

			continue
		}

		if nodes[p].depth > d {
			break
		}

		if t.isRootOrNil(nodes[p].left) || nodes[nodes[p].left].maxDepth <= d {
			p = nodes[p].right
			doAssert(p != nilNode)

			continue
		}

		panic("bst: cut cannot classify node while descending to the deep interval")
	}

	lPre, lPreExists := t.findPredecessor(p)
	p = lPre

	var lPreKey uint32

	var subtreeKey uint32

	hasSubtreeKey := false

	if lPreExists {
		lPreKey = nodes[p].item.Key
		p = t.splitAt(p, 0, false)

		if r := nodes[p].right; r != nilNode {
			subtreeKey = nodes[r].item.Key
			hasSubtreeKey = true
		}
	} else {
		p = t.auxRoot(p)
		subtreeKey = nodes[p].item.Key
		hasSubtreeKey = true
	}

	// Find r, the maximal node deeper than d, in the mirror image.
	for {
		if r := nodes[p].right; !t.isRootOrNil(r) && nodes[r].maxDepth > d {
			p = r

			continue
		}

		if nodes[p].depth > d {
			break
		}

		if t.isRootOrNil(nodes[p].right) || nodes[nodes[p].right].maxDepth <= d {
			p = nodes[p].left
			doAssert(p != nilNode)

			continue
		}

		panic("bst: cut cannot classify node while descending to the deep interval")
	}

	rSuc, rSucExists := t.findSuccessor(p)

	if !lPreExists && !rSucExists {
		// Every node is deeper than d: the whole tree is the deep
		// interval and it is an auxiliary tree already.
		p = t.auxRoot(p)
		t.observer.TreeEvent(EventCutEnd, p, nil)

		return p
	}

	if rSucExists {
		p = t.splitAt(rSuc, subtreeKey, hasSubtreeKey)
		p = nodes[p].left
	} else {
		// The deep interval reaches the maximum key, so after the left
		// split it is exactly the right subtree of the predecessor.
		p = nodes[t.auxRoot(p)].right
	}

	doAssert(p != nilNode)
	t.setRootMark(p, true)

	if rSucExists {
		p = nodes[p].parent
		p = t.concatenateAt(p)
	}

	if lPreExists {
		for nodes[p].item.Key != lPreKey {
			p = nodes[p].parent
			doAssert(p != nilNode)
		}

		p = t.concatenateAt(p)
	}

	p = t.auxRoot(p)
	t.observer.TreeEvent(EventCutEnd, p, nil)

	return p
}

// join merges the auxiliary tree rooted at p into the auxiliary tree of its
// parent, unmarking p. The tree above must not reach below p's depth between
// p's boundary neighbors, which is what cut arranges before every join.
// Returns the root of the merged tree.
func (t *TangoTree) join(p uint32) uint32 {
	t.observer.TreeEvent(EventJoinStart, p, nil)

	nodes := t.storage()
	p = t.auxRoot(p)
	rootKey := nodes[p].item.Key

	p = nodes[p].parent
	doAssert(p != nilNode)

	if nodes[p].item.Key < rootKey {
		// The parent is the predecessor of the joined interval.
		lPreKey := nodes[p].item.Key
		p = t.splitAt(p, 0, false)

		var subtreeKey uint32

		hasSubtreeKey := false

		if r := nodes[p].right; r != nilNode {
			subtreeKey = nodes[r].item.Key
			hasSubtreeKey = true
		}

		rSuc, rSucExists := t.findSuccessor(p)

		if rSucExists {
			p = t.splitAt(rSuc, subtreeKey, hasSubtreeKey)
			p = nodes[p].left
		} else {
			p = nodes[p].right
		}

		t.setRootMark(p, false)

		if rSucExists {
			p = nodes[p].parent
			p = t.concatenateAt(p)
		}

		for nodes[p].item.Key != lPreKey {
			p = nodes[p].parent
			doAssert(p != nilNode)
		}

		p = t.concatenateAt(p)
	} else {
		// The parent is the successor of the joined interval.
		rSucKey := nodes[p].item.Key
		p = t.splitAt(p, 0, false)

		var subtreeKey uint32

		hasSubtreeKey := false

		if l := nodes[p].left; l != nilNode {
			subtreeKey = nodes[l].item.Key
			hasSubtreeKey = true
		}

		lPre, lPreExists := t.findPredecessor(p)

		if lPreExists {
			p = t.splitAt(lPre, subtreeKey, hasSubtreeKey)
			p = nodes[p].right
		} else {
			p = nodes[p].left
		}

		t.setRootMark(p, false)

		if lPreExists {
			p = nodes[p].parent
			p = t.concatenateAt(p)
		}

		for nodes[p].item.Key != rSucKey {
			p = nodes[p].parent
			doAssert(p != nilNode)
		}

		p = t.concatenateAt(p)
	}

	p = t.auxRoot(p)
	t.observer.TreeEvent(EventJoinEnd, p, nil)

	return p
}
