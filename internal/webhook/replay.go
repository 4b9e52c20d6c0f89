package webhook

import (
	"context"
	"sync"
)

// ReplayGuard tracks which externally-supplied event ids have already been
// admitted. AdmitOnce returns true exactly once per id: under concurrent
// calls with the same id, at most one caller proceeds.
type ReplayGuard interface {
	AdmitOnce(ctx context.Context, eventID string) (bool, error)
}

// MemoryGuard is a process-wide ReplayGuard. Admitted ids are kept for the
// life of the process; deployments expecting sustained webhook volume should
// use RedisGuard, which bounds retention with a TTL.
type MemoryGuard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{seen: make(map[string]struct{})}
}

func (g *MemoryGuard) AdmitOnce(ctx context.Context, eventID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, dup := g.seen[eventID]; dup {
		return false, nil
	}
	g.seen[eventID] = struct{}{}
	return true, nil
}
