package assistant

import (
	"sync"
	"time"
)

const gateCleanupInterval = 10 * time.Minute

// rateGate lets one request per window through for each key.
type rateGate struct {
	mu          sync.Mutex
	window      time.Duration
	last        map[string]time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

func newRateGate(window time.Duration) *rateGate {
	g := &rateGate{
		window:      window,
		last:        make(map[string]time.Time),
		stopCleanup: make(chan struct{}),
	}
	go g.cleanupLoop()
	return g
}

func (g *rateGate) cleanupLoop() {
	ticker := time.NewTicker(gateCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.cleanup(nowFunc())
		case <-g.stopCleanup:
			return
		}
	}
}

func (g *rateGate) cleanup(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for key, t := range g.last {
		if now.Sub(t) >= g.window {
			delete(g.last, key)
		}
	}
}

// allow records now for key unless the previous allowed request is younger than the window.
func (g *rateGate) allow(key string, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if t, ok := g.last[key]; ok && now.Sub(t) < g.window {
		return false
	}
	g.last[key] = now
	return true
}

func (g *rateGate) stop() {
	g.stopOnce.Do(func() { close(g.stopCleanup) })
}
