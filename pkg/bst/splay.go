package bst

// SplayTree is a self-adjusting binary search tree that rotates every
// accessed node to the structural root with zig, zig-zig and zig-zag steps.
type SplayTree struct {
	tree
	count int
}

// NewSplayTree creates an empty splay tree on the given arena.
func NewSplayTree(arena *Arena, opts ...Option) *SplayTree {
	t := &SplayTree{
		tree: tree{arena: arena, observer: nopObserver{}},
	}
	for _, opt := range opts {
		opt(&t.tree)
	}

	return t
}

// Len returns the number of items in the tree.
func (t *SplayTree) Len() int {
	return t.count
}

// Insert adds an item and splays it to the root. If the key is already
// present the stored value is updated, the node is splayed anyway and false
// is returned.
func (t *SplayTree) Insert(item Item) bool {
	p, found := t.descend(item.Key)
	if found {
		t.storage()[p].item.Value = item.Value
		t.splay(p)

		return false
	}

	p = t.attach(p, item)
	t.count++
	t.splay(p)

	return true
}

// Search returns the value stored under the key and splays its node, or
// returns ErrKeyNotFound leaving the tree unchanged.
func (t *SplayTree) Search(key uint32) (uint32, error) {
	p, found := t.descend(key)
	if !found {
		return 0, ErrKeyNotFound
	}

	value := t.storage()[p].item.Value
	t.splay(p)

	return value, nil
}

// splay rotates p to the structural root.
func (t *SplayTree) splay(p uint32) {
	nodes := t.storage()

	for nodes[p].parent != nilNode {
		parent := nodes[p].parent
		grand := nodes[parent].parent

		switch {
		case grand == nilNode:
			// Zig.
			t.rotateUp(p)
		case (p == nodes[parent].left) == (parent == nodes[grand].left):
			// Zig-zig: the parent goes first.
			t.rotateUp(parent)
			t.rotateUp(p)
		default:
			// Zig-zag.
			t.rotateUp(p)
			t.rotateUp(p)
		}
	}
}
