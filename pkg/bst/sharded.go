package bst

import (
	"hash/fnv"
	"sync"

	"github.com/Sumatoshi-tech/tangotree/pkg/safeconv"
)

// ShardedArena distributes node storage over several arenas so independent
// trees hibernate and boot in parallel. Trees pick a shard by an arbitrary
// identifier; trees sharing a shard share its storage.
type ShardedArena struct {
	shards []*Arena
}

const minShardHibernationThreshold = 1000

// NewShardedArena creates the given number of shards. The hibernation
// threshold is spread across shards, with a floor that keeps tiny shards
// from compressing pointlessly.
func NewShardedArena(shardCount, hibernationThreshold int) *ShardedArena {
	doAssert(shardCount > 0)

	perShard := max(hibernationThreshold/shardCount, minShardHibernationThreshold)

	shards := make([]*Arena, shardCount)
	for i := range shards {
		shards[i] = &Arena{HibernationThreshold: perShard}
	}

	return &ShardedArena{shards: shards}
}

// ForKey returns the shard an identifier maps to.
func (s *ShardedArena) ForKey(key uint32) *Arena {
	h := fnv.New32a()
	_, _ = h.Write([]byte{byte(key), byte(key >> 8), byte(key >> 16), byte(key >> 24)})

	return s.shards[h.Sum32()%safeconv.MustIntToUint32(len(s.shards))]
}

// Size returns the total storage size in nodes across all shards.
func (s *ShardedArena) Size() int {
	total := 0
	for _, shard := range s.shards {
		total += shard.Size()
	}

	return total
}

// Used returns the number of allocated nodes across all shards.
func (s *ShardedArena) Used() int {
	total := 0
	for _, shard := range s.shards {
		total += shard.Used()
	}

	return total
}

// Hibernate compresses all shards in parallel.
func (s *ShardedArena) Hibernate() {
	s.forEachShard(func(shard *Arena) {
		shard.Hibernate()
	})
}

// Boot restores all shards in parallel.
func (s *ShardedArena) Boot() {
	s.forEachShard(func(shard *Arena) {
		shard.Boot()
	})
}

func (s *ShardedArena) forEachShard(f func(*Arena)) {
	wg := &sync.WaitGroup{}
	wg.Add(len(s.shards))

	for _, shard := range s.shards {
		go func(shard *Arena) {
			f(shard)
			wg.Done()
		}(shard)
	}

	wg.Wait()
}
