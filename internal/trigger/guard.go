package trigger

import (
	"context"
	"sync"
)

// Guard prevents concurrent execution of the same job.
type Guard struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// TryLock attempts to mark job as running. It returns false if the job is
// already running.
func (g *Guard) TryLock(job string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, ok := g.running[job]; ok {
		return false
	}
	g.running[job] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock marks the job as no longer running. Must be called after TryLock
// returns true.
func (g *Guard) Unlock(job string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, job)
	g.wg.Done()
}

// Running reports whether job currently holds the guard.
func (g *Guard) Running(job string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.running[job]
	return ok
}

// WaitAll blocks until all running jobs complete or ctx is cancelled.
func (g *Guard) WaitAll(ctx context.Context) {
	waitGroup(ctx, &g.wg)
}
