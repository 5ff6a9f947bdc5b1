// Package sync provides keyed locking primitives for serializing work per
// resource without a global mutex.
package sync

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

// ShardedMutex maps each key onto one of a fixed set of mutexes. Two calls
// with the same key always contend on the same shard, so read-modify-write
// sequences on one subject serialize while unrelated subjects proceed.
// Distinct keys may share a shard; hold times must stay short.
type ShardedMutex struct {
	shards [shardCount]sync.Mutex
}

// NewShardedMutex returns a ready-to-use sharded mutex.
func NewShardedMutex() *ShardedMutex {
	return &ShardedMutex{}
}

// Lock acquires the shard that owns key.
func (m *ShardedMutex) Lock(key string) {
	m.shards[m.shardFor(key)].Lock()
}

// Unlock releases the shard that owns key.
func (m *ShardedMutex) Unlock(key string) {
	m.shards[m.shardFor(key)].Unlock()
}

func (m *ShardedMutex) shardFor(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % shardCount
}
