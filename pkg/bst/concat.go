package bst

// concatenateAt merges the subtrees of the pivot p into one valid red-black
// tree. Both subtrees must be valid red-black trees on their own; the pivot
// itself may carry any color. Children that are auxiliary roots count as
// empty, so the same code serves plain trees and Tango auxiliary trees.
//
// Returns the root of the merged subtree, found again by climbing back to
// the node that was p's parent when the merge started.
func (t *tree) concatenateAt(p uint32) uint32 {
	nodes := t.storage()

	// Red roots of the operand trees are normalized to black first. That
	// keeps the black height comparison below meaningful.
	t1 := nodes[p].left
	if t1 != nilNode && nodes[t1].color == red {
		nodes[t1].color = black
		nodes[t1].bh++
	}

	t2 := nodes[p].right
	if t2 != nilNode && nodes[t2].color == red {
		nodes[t2].color = black
		nodes[t2].bh++
	}

	// The merged subtree keeps hanging below this node: neither the case
	// rotations nor the fixup ever cross it, so it stays put and marks the
	// way back after the merge.
	parent := nodes[p].parent

	switch {
	case t.isRootOrNil(t1) && t.isRootOrNil(t2):
		nodes[p].color = black
		nodes[p].bh = 1

	case t.isRootOrNil(t1):
		// Only the right operand exists: rotate p to the bottom of its
		// left spine and reinsert it as a red leaf.
		for !t.isRootOrNil(nodes[p].right) {
			t.rotateAux(nodes[p].right)
		}

		nodes[p].color = red
		nodes[p].bh = 0

	case t.isRootOrNil(t2):
		for !t.isRootOrNil(nodes[p].left) {
			t.rotateAux(nodes[p].left)
		}

		nodes[p].color = red
		nodes[p].bh = 0

	case nodes[t1].bh == nodes[t2].bh:
		// Equal heights: the pivot becomes a black root right away.
		nodes[p].color = black
		nodes[p].bh = nodes[t1].bh + 1

	case nodes[t1].bh > nodes[t2].bh:
		// The left operand is taller: send the red pivot down its right
		// spine until the subtree below matches the shorter side.
		nodes[p].color = red
		nodes[p].bh = nodes[t2].bh

		for nodes[nodes[p].left].bh > nodes[t2].bh || nodes[nodes[p].left].color == red {
			t.rotateAux(nodes[p].left)
		}

	default:
		nodes[p].color = red
		nodes[p].bh = nodes[t1].bh

		for nodes[nodes[p].right].bh > nodes[t1].bh || nodes[nodes[p].right].color == red {
			t.rotateAux(nodes[p].right)
		}
	}

	if nodes[p].color == red {
		p = t.insertFixup(p, parent)
	}

	for nodes[p].parent != parent {
		p = nodes[p].parent
		doAssert(p != nilNode)
	}

	return p
}

// splitAt rotates p up to the boundary of its tree, concatenating the
// subtree left behind after every rotation. p ends at the root position with
// two valid red-black subtrees hanging off it.
//
// With hasStop set, the climb instead ends when p has taken the place of the
// node carrying stopKey, which bounds the split to a red-black subtree that
// is not an auxiliary tree of its own.
func (t *tree) splitAt(p uint32, stopKey uint32, hasStop bool) uint32 {
	nodes := t.storage()

	if hasStop && nodes[p].item.Key == stopKey {
		return p
	}

	foundStop := false

	for !t.atBoundary(p) && !foundStop {
		parent := nodes[p].parent
		if hasStop && nodes[parent].item.Key == stopKey {
			foundStop = true
		}

		t.rotateAux(p)

		// The former parent now hangs under p with one subtree orphaned
		// from the split path. Re-merging it keeps both sides of p valid.
		sub := nodes[p].left
		if nodes[p].right == parent {
			sub = nodes[p].right
		}

		sub = t.concatenateAt(sub)
		p = nodes[sub].parent

		t.observer.TreeEvent(EventSplit, p, []uint32{sub})
	}

	return p
}
