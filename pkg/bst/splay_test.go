package bst //nolint:testpackage // tests require access to unexported fields (storage, root, marks).

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplayInsertMovesToRoot(t *testing.T) {
	t.Parallel()

	tree := NewSplayTree(NewArena(0))
	nodes := func() []node { return tree.storage() }

	tree.Insert(Item{1, 1})
	tree.Insert(Item{2, 2})
	tree.Insert(Item{3, 3})

	assert.Equal(t, uint32(3), nodes()[tree.root].item.Key, "last insert splays to root")

	v, err := tree.Search(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), v)
	assert.Equal(t, uint32(1), nodes()[tree.root].item.Key, "search splays to root")
}

func TestSplayZigZig(t *testing.T) {
	t.Parallel()

	tree := NewSplayTree(NewArena(0))

	// Build the left spine 3-2-1 by hand, then splay the deepest node.
	three := tree.attach(nilNode, Item{3, 3})
	two := tree.attach(three, Item{2, 2})
	one := tree.attach(two, Item{1, 1})
	tree.count = 3

	tree.splay(one)

	nodes := tree.storage()
	assert.Equal(t, one, tree.root)

	// The zig-zig step rotates the parent first, producing a right spine
	// 1-2-3 rather than the shallow shape a bottom-up double zig gives.
	assert.Equal(t, two, nodes[one].right)
	assert.Equal(t, three, nodes[two].right)
}

func TestSplayZigZag(t *testing.T) {
	t.Parallel()

	tree := NewSplayTree(NewArena(0))

	three := tree.attach(nilNode, Item{3, 3})
	one := tree.attach(three, Item{1, 1})
	two := tree.attach(one, Item{2, 2})
	tree.count = 3

	tree.splay(two)

	nodes := tree.storage()
	assert.Equal(t, two, tree.root)
	assert.Equal(t, one, nodes[two].left)
	assert.Equal(t, three, nodes[two].right)
}

func TestSplaySearchMissing(t *testing.T) {
	t.Parallel()

	tree := NewSplayTree(NewArena(0))
	tree.Insert(Item{5, 5})

	_, err := tree.Search(6)
	require.ErrorIs(t, err, ErrKeyNotFound)
	assert.Equal(t, uint32(5), tree.storage()[tree.root].item.Key)
}

func TestSplayRandomAccess(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))
	tree := NewSplayTree(NewArena(0))

	for i := 0; i < 200; i++ {
		tree.Insert(Item{uint32(i), uint32(i) * 2})
	}

	for n := 0; n < 500; n++ {
		k := uint32(rng.Intn(200))

		v, err := tree.Search(k)
		require.NoError(t, err)
		assert.Equal(t, k*2, v)
		assert.Equal(t, k, tree.storage()[tree.root].item.Key)
	}
}
