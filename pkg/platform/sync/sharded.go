// Package sync carries concurrency helpers shared by the in-memory stores.
package sync

import (
	"sync"
)

const shardCount = 32

// ShardedMutex serializes work per key without one global lock. Keys hash
// onto a fixed set of shards, so two hot keys contend only when they land
// on the same shard. The rate limiter uses it to serialize window updates
// per bucket key.
type ShardedMutex struct {
	shards [shardCount]sync.Mutex
}

// NewShardedMutex returns a ShardedMutex ready for use.
func NewShardedMutex() *ShardedMutex {
	return &ShardedMutex{}
}

// Lock acquires the shard owning key. The empty key is a valid key.
func (m *ShardedMutex) Lock(key string) {
	m.shards[m.shardIndex(key)].Lock()
}

// Unlock releases the shard owning key. Must pair with a Lock of the
// same key.
func (m *ShardedMutex) Unlock(key string) {
	m.shards[m.shardIndex(key)].Unlock()
}

func (m *ShardedMutex) shardIndex(key string) int {
	return int(fnv32a(key) % shardCount)
}

// fnv32a is FNV-1a inlined to keep the lock path allocation-free.
func fnv32a(s string) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h
}
