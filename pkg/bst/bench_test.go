package bst //nolint:testpackage // tests require access to unexported fields (storage, root, marks).

import (
	"testing"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"github.com/google/btree"
	"github.com/petar/GoLLRB/llrb"
)

const (
	benchTreeSize      = 1 << 14
	benchKeyMultiplier = 2654435761 // Knuth multiplicative hash, scatters the probe keys.
	benchBTreeDegree   = 32
)

func benchKey(i int) uint32 {
	return uint32(i*benchKeyMultiplier) % benchTreeSize
}

func BenchmarkInsert_RedBlack(b *testing.B) {
	for n := 0; n < b.N; n++ {
		tree := NewRBTree(NewArena(benchTreeSize))
		for i := 0; i < benchTreeSize; i++ {
			tree.Insert(Item{uint32(i), uint32(i)})
		}
	}
}

func BenchmarkInsert_Splay(b *testing.B) {
	for n := 0; n < b.N; n++ {
		tree := NewSplayTree(NewArena(benchTreeSize))
		for i := 0; i < benchTreeSize; i++ {
			tree.Insert(Item{uint32(i), uint32(i)})
		}
	}
}

func BenchmarkInsert_GodsRedBlack(b *testing.B) {
	for n := 0; n < b.N; n++ {
		tree := redblacktree.NewWith(utils.UInt32Comparator)
		for i := 0; i < benchTreeSize; i++ {
			tree.Put(uint32(i), uint32(i))
		}
	}
}

func BenchmarkInsert_LLRB(b *testing.B) {
	for n := 0; n < b.N; n++ {
		tree := llrb.New()
		for i := 0; i < benchTreeSize; i++ {
			tree.ReplaceOrInsert(llrb.Int(i))
		}
	}
}

func BenchmarkInsert_BTree(b *testing.B) {
	for n := 0; n < b.N; n++ {
		tree := btree.NewOrderedG[uint32](benchBTreeDegree)
		for i := 0; i < benchTreeSize; i++ {
			tree.ReplaceOrInsert(uint32(i))
		}
	}
}

func BenchmarkSearchScattered_RedBlack(b *testing.B) {
	tree := NewRBTree(NewArena(benchTreeSize))
	for i := 0; i < benchTreeSize; i++ {
		tree.Insert(Item{uint32(i), uint32(i)})
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := tree.Search(benchKey(i)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearchScattered_Splay(b *testing.B) {
	tree := NewSplayTree(NewArena(benchTreeSize))
	for i := 0; i < benchTreeSize; i++ {
		tree.Insert(Item{uint32(i), uint32(i)})
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := tree.Search(benchKey(i)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearchScattered_Tango(b *testing.B) {
	items := make([]Item, benchTreeSize)
	for i := range items {
		items[i] = Item{uint32(i), uint32(i)}
	}

	tree, err := NewTangoTree(NewArena(benchTreeSize), items)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		tree.Search(benchKey(i))
	}
}

func BenchmarkSearchScattered_GodsRedBlack(b *testing.B) {
	tree := redblacktree.NewWith(utils.UInt32Comparator)
	for i := 0; i < benchTreeSize; i++ {
		tree.Put(uint32(i), uint32(i))
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, found := tree.Get(benchKey(i)); !found {
			b.Fatal("missing key")
		}
	}
}

func BenchmarkSearchScattered_LLRB(b *testing.B) {
	tree := llrb.New()
	for i := 0; i < benchTreeSize; i++ {
		tree.ReplaceOrInsert(llrb.Int(i))
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if tree.Get(llrb.Int(int(benchKey(i)))) == nil {
			b.Fatal("missing key")
		}
	}
}

func BenchmarkSearchScattered_BTree(b *testing.B) {
	tree := btree.NewOrderedG[uint32](benchBTreeDegree)
	for i := 0; i < benchTreeSize; i++ {
		tree.ReplaceOrInsert(uint32(i))
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, found := tree.Get(benchKey(i)); !found {
			b.Fatal("missing key")
		}
	}
}

// Working-set access: the self-adjusting trees should shine when the probes
// cycle through a small hot set.
const benchWorkingSet = 16

func BenchmarkSearchWorkingSet_RedBlack(b *testing.B) {
	tree := NewRBTree(NewArena(benchTreeSize))
	for i := 0; i < benchTreeSize; i++ {
		tree.Insert(Item{uint32(i), uint32(i)})
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := tree.Search(benchKey(i % benchWorkingSet)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearchWorkingSet_Splay(b *testing.B) {
	tree := NewSplayTree(NewArena(benchTreeSize))
	for i := 0; i < benchTreeSize; i++ {
		tree.Insert(Item{uint32(i), uint32(i)})
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := tree.Search(benchKey(i % benchWorkingSet)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearchWorkingSet_Tango(b *testing.B) {
	items := make([]Item, benchTreeSize)
	for i := range items {
		items[i] = Item{uint32(i), uint32(i)}
	}

	tree, err := NewTangoTree(NewArena(benchTreeSize), items)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		tree.Search(benchKey(i % benchWorkingSet))
	}
}

func BenchmarkSearchWorkingSet_GodsRedBlack(b *testing.B) {
	tree := redblacktree.NewWith(utils.UInt32Comparator)
	for i := 0; i < benchTreeSize; i++ {
		tree.Put(uint32(i), uint32(i))
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, found := tree.Get(benchKey(i % benchWorkingSet)); !found {
			b.Fatal("missing key")
		}
	}
}
