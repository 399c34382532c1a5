package bst

// NaiveTree is an unbalanced binary search tree. It exists as the baseline
// the self-adjusting trees are measured against and shares their arena and
// observer plumbing.
type NaiveTree struct {
	tree
	count int
}

// NewNaiveTree creates an empty unbalanced tree on the given arena.
func NewNaiveTree(arena *Arena, opts ...Option) *NaiveTree {
	t := &NaiveTree{
		tree: tree{arena: arena, observer: nopObserver{}},
	}
	for _, opt := range opts {
		opt(&t.tree)
	}

	return t
}

// Len returns the number of items in the tree.
func (t *NaiveTree) Len() int {
	return t.count
}

// Insert adds an item. If the key is already present the stored value is
// updated and false is returned.
func (t *NaiveTree) Insert(item Item) bool {
	p, found := t.descend(item.Key)
	if found {
		t.storage()[p].item.Value = item.Value

		return false
	}

	t.attach(p, item)
	t.count++

	return true
}

// Search returns the value stored under the key, or ErrKeyNotFound.
func (t *NaiveTree) Search(key uint32) (uint32, error) {
	p, found := t.descend(key)
	if !found {
		return 0, ErrKeyNotFound
	}

	return t.storage()[p].item.Value, nil
}

// descend walks toward the key and returns the matching node, or the leaf
// a new node would hang below.
func (t *tree) descend(key uint32) (uint32, bool) {
	nodes := t.storage()
	p := t.root

	if p == nilNode {
		return nilNode, false
	}

	for {
		switch {
		case key == nodes[p].item.Key:
			return p, true
		case key < nodes[p].item.Key:
			if nodes[p].left == nilNode {
				return p, false
			}

			p = nodes[p].left
		default:
			if nodes[p].right == nilNode {
				return p, false
			}

			p = nodes[p].right
		}
	}
}

// attach allocates a node for the item below the given parent, or as the
// structural root when parent is nil.
func (t *tree) attach(parent uint32, item Item) uint32 {
	p := t.arena.malloc()
	nodes := t.storage()
	nodes[p].item = item
	nodes[p].parent = parent

	if parent == nilNode {
		t.root = p

		return p
	}

	if item.Key < nodes[parent].item.Key {
		nodes[parent].left = p
	} else {
		nodes[parent].right = p
	}

	return p
}
