package ratelimit

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/okian/contactd/pkg/metrics"
)

type window struct {
	count   int
	resetAt time.Time
}

type shard struct {
	mu      sync.Mutex
	windows map[string]*window
}

// MemoryStore is a process-local Store. Keys are spread across shards, each
// guarded by its own mutex, so check-and-increment is atomic per key while
// unrelated identities do not contend.
type MemoryStore struct {
	shards        []*shard
	shardCount    int
	sweepInterval time.Duration
	clock         func() time.Time

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs a sharded in-memory store and starts its sweeper.
func NewMemoryStore(ctx context.Context, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		shardCount:    16,
		sweepInterval: 5 * time.Minute,
		clock:         time.Now,
		stopChan:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{windows: make(map[string]*window)}
	}

	if s.sweepInterval > 0 {
		s.startSweeper(ctx)
	}
	return s
}

// Hit implements Store.
func (s *MemoryStore) Hit(_ context.Context, key string, quota int, length time.Duration, now time.Time) (Window, error) {
	if quota < 1 || length <= 0 {
		return Window{}, fmt.Errorf("%w: quota=%d window=%s", ErrInvalidLimit, quota, length)
	}

	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	w, ok := sh.windows[key]
	if !ok || !now.Before(w.resetAt) {
		// First request, or the previous window elapsed: start fresh.
		w = &window{count: 1, resetAt: now.Add(length)}
		sh.windows[key] = w
		return Window{Count: 1, Allowed: true, ResetAt: w.resetAt}, nil
	}

	if w.count >= quota {
		return Window{Count: w.count, Allowed: false, ResetAt: w.resetAt}, nil
	}
	w.count++
	return Window{Count: w.count, Allowed: true, ResetAt: w.resetAt}, nil
}

// Sweep drops windows that elapsed at or before now and returns how many were removed.
func (s *MemoryStore) Sweep(now time.Time) int {
	removed := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for k, w := range sh.windows {
			if !now.Before(w.resetAt) {
				delete(sh.windows, k)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// Len returns the number of tracked windows, including elapsed ones not yet swept.
func (s *MemoryStore) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.windows)
		sh.mu.Unlock()
	}
	return n
}

// Close stops the sweeper.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func (s *MemoryStore) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

func (s *MemoryStore) startSweeper(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.RecordRateLimitSweep(s.Sweep(s.clock()))
				metrics.UpdateRateLimitWindows(s.Len())
			}
		}
	}()
}
