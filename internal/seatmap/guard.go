package seatmap

import "sync"

// TeardownGuard decides whether a teardown invocation releases seats.
//
// With skipFirst set the guard arms itself on the first invocation and only
// later invocations act. This reproduces the booking front end, where the
// release ran only on the second cleanup call. Whether that was a deliberate
// debounce is unknown, so the behavior stays configurable.
type TeardownGuard struct {
	mu        sync.Mutex
	skipFirst bool
	armed     bool
}

func NewTeardownGuard(releaseOnFirst bool) *TeardownGuard {
	return &TeardownGuard{skipFirst: !releaseOnFirst}
}

// Fire records one teardown invocation and reports whether it should act.
func (g *TeardownGuard) Fire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.skipFirst && !g.armed {
		g.armed = true
		return false
	}
	return true
}
