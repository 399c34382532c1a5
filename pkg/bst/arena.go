package bst

import (
	"sync"

	"github.com/Sumatoshi-tech/tangotree/pkg/safeconv"
)

// Arena is a pooled allocator for tree nodes. Node references are uint32
// indexes into the backing slice, with index 0 reserved as the nil node.
// Trees of all flavors in this package may share one arena.
//
// An arena can be hibernated: the node planes are deinterleaved, delta
// encoded where it pays off and LZ4 compressed. A hibernated arena rejects
// all tree operations until Boot is called.
type Arena struct {
	// HibernationThreshold is the minimum number of nodes that makes
	// Hibernate compress instead of no-op.
	HibernationThreshold int

	storage        []node
	hibernatedLen  int
	hibernatedData [planeCount][]byte
}

const planeCount = 10

const (
	planeKey = iota
	planeValue
	planeParent
	planeLeft
	planeRight
	planeBH
	planeDepth
	planeMinDepth
	planeMaxDepth
	planeFlags
)

const (
	flagBlack   = uint32(1)
	flagAuxRoot = uint32(2)
)

// NewArena creates an arena with storage preallocated for the given number
// of nodes.
func NewArena(capacity int) *Arena {
	return &Arena{
		storage: make([]node, 0, capacity+1),
	}
}

// Size returns the total storage size in nodes, including the reserved nil
// node once anything has been allocated.
func (a *Arena) Size() int {
	return len(a.storage)
}

// Used returns the number of nodes allocated to trees.
func (a *Arena) Used() int {
	if len(a.storage) == 0 {
		return 0
	}

	return len(a.storage) - 1
}

// Clone copies the arena. Cloning a hibernated arena is not allowed.
func (a *Arena) Clone() *Arena {
	if a.hibernatedLen > 0 {
		panic("cannot clone a hibernated arena")
	}

	clone := &Arena{
		HibernationThreshold: a.HibernationThreshold,
		storage:              make([]node, len(a.storage), cap(a.storage)),
	}
	copy(clone.storage, a.storage)

	return clone
}

func (a *Arena) malloc() uint32 {
	if a.hibernatedLen > 0 {
		panic("hibernated arenas cannot be used")
	}

	if len(a.storage) == 0 {
		// Reserve the nil node.
		a.storage = append(a.storage, node{})
	}

	n := len(a.storage)
	if n == maxArenaNodes {
		panic("the tree is too big, sorry")
	}

	a.storage = append(a.storage, node{})

	return safeconv.MustIntToUint32(n)
}

const maxArenaNodes = int(^uint32(0))

// Hibernate compresses the arena and frees the node storage. It is a no-op
// while fewer than HibernationThreshold nodes are allocated.
func (a *Arena) Hibernate() {
	if a.hibernatedLen > 0 {
		panic("cannot hibernate an already hibernated arena")
	}

	if len(a.storage) < a.HibernationThreshold {
		return
	}

	a.hibernatedLen = len(a.storage)

	buffers := a.deinterleave()

	wg := &sync.WaitGroup{}
	wg.Add(planeCount)

	for i := 0; i < planeCount; i++ {
		go func(i int) {
			if deltaPlane(i) {
				DeltaEncodeUInt32Slice(buffers[i])
			}

			a.hibernatedData[i] = CompressUInt32Slice(buffers[i])
			buffers[i] = nil
			wg.Done()
		}(i)
	}

	wg.Wait()

	a.storage = nil
}

// deltaPlane reports whether a plane holds values correlated with the node
// index, where delta encoding improves the compression ratio.
func deltaPlane(i int) bool {
	return i == planeKey || i == planeParent || i == planeLeft || i == planeRight
}

// Boot performs the opposite of Hibernate: it restores the node storage
// from the compressed planes.
func (a *Arena) Boot() {
	if a.hibernatedLen == 0 {
		// Not hibernated.
		return
	}

	for _, plane := range a.hibernatedData {
		doAssert(plane != nil)
	}

	buffers := [planeCount][]uint32{}

	wg := &sync.WaitGroup{}
	wg.Add(planeCount)

	for i := 0; i < planeCount; i++ {
		go func(i int) {
			buffers[i] = make([]uint32, a.hibernatedLen)
			DecompressUInt32Slice(a.hibernatedData[i], buffers[i])

			if deltaPlane(i) {
				DeltaDecodeUInt32Slice(buffers[i])
			}

			a.hibernatedData[i] = nil
			wg.Done()
		}(i)
	}

	wg.Wait()

	a.interleave(buffers)
	a.hibernatedLen = 0
}

func (a *Arena) deinterleave() [planeCount][]uint32 {
	n := len(a.storage)

	buffers := [planeCount][]uint32{}
	for i := 0; i < planeCount; i++ {
		buffers[i] = make([]uint32, n)
	}

	for i, nd := range a.storage {
		buffers[planeKey][i] = nd.item.Key
		buffers[planeValue][i] = nd.item.Value
		buffers[planeParent][i] = nd.parent
		buffers[planeLeft][i] = nd.left
		buffers[planeRight][i] = nd.right
		buffers[planeBH][i] = nd.bh
		buffers[planeDepth][i] = nd.depth
		buffers[planeMinDepth][i] = nd.minDepth
		buffers[planeMaxDepth][i] = nd.maxDepth

		flags := uint32(0)
		if nd.color == black {
			flags |= flagBlack
		}

		if nd.isRoot {
			flags |= flagAuxRoot
		}

		buffers[planeFlags][i] = flags
	}

	return buffers
}

func (a *Arena) interleave(buffers [planeCount][]uint32) {
	n := a.hibernatedLen
	a.storage = make([]node, n)

	for i := range a.storage {
		nd := &a.storage[i]
		nd.item.Key = buffers[planeKey][i]
		nd.item.Value = buffers[planeValue][i]
		nd.parent = buffers[planeParent][i]
		nd.left = buffers[planeLeft][i]
		nd.right = buffers[planeRight][i]
		nd.bh = buffers[planeBH][i]
		nd.depth = buffers[planeDepth][i]
		nd.minDepth = buffers[planeMinDepth][i]
		nd.maxDepth = buffers[planeMaxDepth][i]

		flags := buffers[planeFlags][i]
		nd.color = flags&flagBlack != 0
		nd.isRoot = flags&flagAuxRoot != 0
	}
}
