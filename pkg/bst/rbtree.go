package bst

import (
	"errors"
)

// Errors returned by tree operations.
var (
	ErrKeyNotFound      = errors.New("bst: key not found")
	ErrEmptyTree        = errors.New("bst: tree is empty")
	ErrEmptyUniverse    = errors.New("bst: key universe is empty")
	ErrUnsortedUniverse = errors.New("bst: universe keys must be strictly increasing")
)

// RBTree is a red-black tree over an arena. Every node carries the black
// height of its subtree, maintained incrementally at color changes, which
// makes Join and Split run without recomputing heights.
type RBTree struct {
	tree
	count int
}

// NewRBTree creates an empty red-black tree on the given arena.
func NewRBTree(arena *Arena, opts ...Option) *RBTree {
	t := &RBTree{
		tree: tree{arena: arena, observer: nopObserver{}},
	}
	for _, opt := range opts {
		opt(&t.tree)
	}

	return t
}

// Len returns the number of items in the tree.
func (t *RBTree) Len() int {
	return t.count
}

// Insert adds an item to the tree. If the key is already present the stored
// value is updated and false is returned.
func (t *RBTree) Insert(item Item) bool {
	if t.root == nilNode {
		p := t.arena.malloc()
		nodes := t.storage()
		nodes[p].item = item
		nodes[p].color = black
		nodes[p].bh = 1
		t.root = p
		t.count++

		return true
	}

	nodes := t.storage()
	parent := nilNode
	leftChild := false

	for p := t.root; p != nilNode; {
		switch {
		case item.Key == nodes[p].item.Key:
			nodes[p].item.Value = item.Value

			return false
		case item.Key < nodes[p].item.Key:
			parent, p, leftChild = p, nodes[p].left, true
		default:
			parent, p, leftChild = p, nodes[p].right, false
		}
	}

	p := t.arena.malloc()
	nodes = t.storage()
	nodes[p].item = item
	nodes[p].parent = parent
	nodes[p].color = red

	if leftChild {
		nodes[parent].left = p
	} else {
		nodes[parent].right = p
	}

	t.count++
	t.insertFixup(p, nilNode)

	return true
}

// Get returns a pointer to the value stored under the key, or nil.
func (t *RBTree) Get(key uint32) *uint32 {
	nodes := t.storage()

	for p := t.root; p != nilNode; {
		switch {
		case key == nodes[p].item.Key:
			return &nodes[p].item.Value
		case key < nodes[p].item.Key:
			p = nodes[p].left
		default:
			p = nodes[p].right
		}
	}

	return nil
}

// Search returns the value stored under the key, or ErrKeyNotFound.
func (t *RBTree) Search(key uint32) (uint32, error) {
	if v := t.Get(key); v != nil {
		return *v, nil
	}

	return 0, ErrKeyNotFound
}

// Split rotates the node with the given key to the structural root. Its two
// subtrees are each valid red-black trees afterwards; the tree as a whole is
// left in the pivot form Join consumes.
func (t *RBTree) Split(key uint32) error {
	nodes := t.storage()
	p := t.root

	for p != nilNode && nodes[p].item.Key != key {
		if key < nodes[p].item.Key {
			p = nodes[p].left
		} else {
			p = nodes[p].right
		}
	}

	if p == nilNode {
		return ErrKeyNotFound
	}

	t.splitAt(p, 0, false)

	return nil
}

// Join rebalances a tree left in pivot form: a root of arbitrary color whose
// two subtrees are each valid red-black trees, as produced by Split. The
// result is a single valid red-black tree over the same items.
func (t *RBTree) Join() error {
	if t.root == nilNode {
		return ErrEmptyTree
	}

	t.concatenateAt(t.root)

	return nil
}

// Min returns an iterator at the smallest item.
func (t *RBTree) Min() Iterator {
	nodes := t.storage()
	p := t.root

	for p != nilNode && nodes[p].left != nilNode {
		p = nodes[p].left
	}

	return Iterator{tree: t, node: p}
}

// Iterator walks the tree in key order. The zero node marks the limit.
type Iterator struct {
	tree *RBTree
	node uint32
}

// Limit reports whether the iterator has moved past the last item.
func (i Iterator) Limit() bool {
	return i.node == nilNode
}

// Item returns the item at the current position.
func (i Iterator) Item() Item {
	return i.tree.storage()[i.node].item
}

// Next advances to the next item in key order.
func (i Iterator) Next() Iterator {
	nodes := i.tree.storage()
	p := i.node

	if nodes[p].right != nilNode {
		p = nodes[p].right
		for nodes[p].left != nilNode {
			p = nodes[p].left
		}

		return Iterator{tree: i.tree, node: p}
	}

	for {
		parent := nodes[p].parent
		if parent == nilNode {
			return Iterator{tree: i.tree, node: nilNode}
		}

		if nodes[parent].left == p {
			return Iterator{tree: i.tree, node: parent}
		}

		p = parent
	}
}

// insertFixup restores the red-black invariants below the given ceiling
// after hanging the red node p. The ceiling is the parent of the subtree
// under repair, nilNode for a whole tree; the subtree node directly below it
// acts as the root (it is blackened when the repair leaves it red) and
// nothing at or above the ceiling is ever touched. That containment is what
// lets concatenateAt run while the surrounding tree is mid-split, with
// red-red pairs across the ceiling left for the next concatenation to
// normalize away. Returns the node where fixing up stopped.
func (t *tree) insertFixup(p, ceiling uint32) uint32 {
	nodes := t.storage()

	for nodes[p].parent != ceiling && getColor(nodes[p].parent, nodes) == red {
		parent := nodes[p].parent
		grand := nodes[parent].parent

		if parent == nodes[grand].left {
			uncle := nodes[grand].right
			if uncle != nilNode && nodes[uncle].color == red {
				nodes[parent].color = black
				nodes[parent].bh++
				nodes[uncle].color = black
				nodes[uncle].bh++
				nodes[grand].color = red
				p = grand

				continue
			}

			if p == nodes[parent].right {
				t.rotateAux(p)
				p = nodes[p].left
			}
		} else {
			uncle := nodes[grand].left
			if uncle != nilNode && nodes[uncle].color == red {
				nodes[parent].color = black
				nodes[parent].bh++
				nodes[uncle].color = black
				nodes[uncle].bh++
				nodes[grand].color = red
				p = grand

				continue
			}

			if p == nodes[parent].left {
				t.rotateAux(p)
				p = nodes[p].right
			}
		}

		parent = nodes[p].parent
		grand = nodes[parent].parent
		nodes[parent].color = black
		nodes[parent].bh++
		nodes[grand].color = red
		nodes[grand].bh--
		t.rotateAux(parent)
	}

	if nodes[p].parent == ceiling && nodes[p].color == red {
		nodes[p].color = black
		nodes[p].bh++
	}

	return p
}
