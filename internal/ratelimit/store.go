package ratelimit

import (
	"context"
	"sync"
	"time"

	platformsync "veripay/pkg/platform/sync"
)

// MemoryStore implements sliding-window counting in process memory.
// Window mutations are serialized per key through a sharded mutex so hot keys
// do not contend on a single global lock.
type MemoryStore struct {
	mu      sync.RWMutex // guards the buckets map shape only
	locks   *platformsync.ShardedMutex
	buckets map[string]*slidingWindow
	now     func() time.Time
}

// slidingWindow is the aggregate root for one key's rate limit state.
type slidingWindow struct {
	timestamps []time.Time
	window     time.Duration
}

// tryConsume attempts to consume tokens from the sliding window.
// Returns whether the request was allowed, remaining capacity, and reset time.
func (sw *slidingWindow) tryConsume(cost, limit int, now time.Time) (allowed bool, remaining int, resetAt time.Time) {
	sw.cleanupExpired(now)

	if len(sw.timestamps)+cost > limit {
		return false, 0, sw.resetTime(now)
	}

	for i := 0; i < cost; i++ {
		sw.timestamps = append(sw.timestamps, now)
	}

	return true, limit - len(sw.timestamps), sw.timestamps[0].Add(sw.window)
}

func (sw *slidingWindow) resetTime(now time.Time) time.Time {
	if len(sw.timestamps) == 0 {
		return now.Add(sw.window)
	}
	return sw.timestamps[0].Add(sw.window)
}

func (sw *slidingWindow) cleanupExpired(now time.Time) {
	cutoff := now.Add(-sw.window)
	i := 0
	for ; i < len(sw.timestamps); i++ {
		if sw.timestamps[i].After(cutoff) {
			break
		}
	}
	sw.timestamps = sw.timestamps[i:]
}

// NewMemoryStore creates a new in-memory sliding window store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		locks:   platformsync.NewShardedMutex(),
		buckets: make(map[string]*slidingWindow),
		now:     time.Now,
	}
}

// Allow checks if a request is allowed and increments the counter.
func (s *MemoryStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	return s.AllowN(ctx, key, 1, limit, window)
}

// AllowN checks if a request with custom cost is allowed.
func (s *MemoryStore) AllowN(_ context.Context, key string, cost, limit int, window time.Duration) (*Result, error) {
	// Holding the shard lock makes the window mutation below safe: every
	// mutator of this key serializes here.
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	s.mu.RLock()
	bucket, ok := s.buckets[key]
	s.mu.RUnlock()
	if !ok {
		s.mu.Lock()
		if bucket, ok = s.buckets[key]; !ok {
			bucket = &slidingWindow{window: window}
			s.buckets[key] = bucket
		}
		s.mu.Unlock()
	}

	allowed, remaining, resetAt := bucket.tryConsume(cost, limit, s.now())

	return &Result{
		Allowed:    allowed,
		Limit:      limit,
		Remaining:  remaining,
		ResetAt:    resetAt,
		RetryAfter: s.retryAfterSeconds(allowed, resetAt),
	}, nil
}

// Reset clears the rate limit counter for a key.
func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	s.mu.Lock()
	delete(s.buckets, key)
	s.mu.Unlock()
	return nil
}

// CurrentCount returns the live request count for a key.
func (s *MemoryStore) CurrentCount(_ context.Context, key string) (int, error) {
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	s.mu.RLock()
	bucket, ok := s.buckets[key]
	s.mu.RUnlock()
	if !ok {
		return 0, nil
	}

	return bucket.count(s.now()), nil
}

func (sw *slidingWindow) count(now time.Time) int {
	sw.cleanupExpired(now)
	return len(sw.timestamps)
}

func (s *MemoryStore) retryAfterSeconds(allowed bool, resetAt time.Time) int {
	if allowed {
		return 0
	}
	seconds := int(resetAt.Sub(s.now()).Seconds())
	if seconds < 0 {
		return 0
	}
	return seconds
}
