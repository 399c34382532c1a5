package bst //nolint:testpackage // tests require access to unexported fields (storage, root, marks).

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaMalloc(t *testing.T) {
	t.Parallel()

	arena := NewArena(4)
	assert.Equal(t, 0, arena.Size())
	assert.Equal(t, 0, arena.Used())

	first := arena.malloc()
	assert.Equal(t, uint32(1), first, "index 0 is reserved for the nil node")
	assert.Equal(t, 2, arena.Size())
	assert.Equal(t, 1, arena.Used())

	second := arena.malloc()
	assert.Equal(t, uint32(2), second)
	assert.Equal(t, 2, arena.Used())
}

func TestArenaClone(t *testing.T) {
	t.Parallel()

	arena := NewArena(0)
	tree := NewRBTree(arena)

	for i := 0; i < 50; i++ {
		boolInsert(tree, i)
	}

	clone := arena.Clone()
	require.Equal(t, arena.Size(), clone.Size())

	// Mutating the original must not leak into the clone.
	boolInsert(tree, 1000)
	assert.Equal(t, arena.Used()-1, clone.Used())
	assert.Equal(t, arena.storage[1], clone.storage[1])
}

func TestArenaHibernateBoot(t *testing.T) {
	t.Parallel()

	tree := testNewTango(t, 100)
	for _, key := range []uint32{0, 42, 99, 17, 63} {
		tree.Search(key)
	}

	arena := tree.arena
	arena.HibernationThreshold = 1

	before := make([]NodeInfo, arena.Used())
	for i := range before {
		before[i] = tree.NodeInfo(uint32(i + 1))
	}

	arena.Hibernate()
	assert.Equal(t, 0, arena.Size())

	require.Panics(t, func() {
		arena.malloc()
	})

	arena.Boot()
	require.Equal(t, len(before)+1, arena.Size())

	for i := range before {
		assert.Equal(t, before[i], tree.NodeInfo(uint32(i+1)), "node %d", i+1)
	}

	// The tree must stay fully operational after the round trip.
	assert.Equal(t, uint32(310), tree.Search(31))
	validateTango(t, tree)
}

func TestArenaHibernateBelowThreshold(t *testing.T) {
	t.Parallel()

	arena := NewArena(0)
	tree := NewRBTree(arena)
	boolInsert(tree, 1)

	arena.HibernationThreshold = 1000
	arena.Hibernate()

	// Below the threshold nothing happens and the tree keeps working.
	assert.Equal(t, 2, arena.Size())
	testAssert(t, boolInsert(tree, 2), "insert after no-op hibernate")
}

func TestArenaHibernatePanics(t *testing.T) {
	t.Parallel()

	arena := NewArena(0)
	tree := NewRBTree(arena)

	for i := 0; i < 10; i++ {
		boolInsert(tree, i)
	}

	arena.HibernationThreshold = 1
	arena.Hibernate()

	require.Panics(t, func() {
		arena.Hibernate()
	})
	require.Panics(t, func() {
		arena.Clone()
	})
}

func TestShardedArena(t *testing.T) {
	t.Parallel()

	sharded := NewShardedArena(4, 8000)

	trees := map[uint32]*RBTree{}
	for id := uint32(0); id < 8; id++ {
		tree := NewRBTree(sharded.ForKey(id))
		for i := 0; i < 100; i++ {
			boolInsert(tree, i)
		}

		trees[id] = tree
	}

	assert.Equal(t, 800, sharded.Used())

	for id, tree := range trees {
		assert.Same(t, sharded.ForKey(id), tree.arena, "shard choice must be stable")
	}

	sizeBefore := sharded.Size()

	sharded.Hibernate()
	sharded.Boot()

	assert.Equal(t, sizeBefore, sharded.Size())

	for _, tree := range trees {
		checkRedBlack(t, tree)

		v, err := tree.Search(42)
		require.NoError(t, err)
		assert.Equal(t, uint32(42), v)
	}
}
