package service

import (
	"sync"
	"time"
)

// CooldownGuard throttles the random-card operation per principal.
// State is process-lifetime only: the intervals involved are seconds, so
// losing them on restart is acceptable.
type CooldownGuard struct {
	mu   sync.Mutex
	last map[int64]time.Time
}

func NewCooldownGuard() *CooldownGuard {
	return &CooldownGuard{last: make(map[int64]time.Time)}
}

// Allow reports whether at least minInterval has passed since the
// principal's last allowed request.  An allowed request records now as
// the new last-request time; a denied one leaves state untouched.  The
// first request for a principal is always allowed.
func (g *CooldownGuard) Allow(principalID int64, now time.Time, minInterval time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if last, ok := g.last[principalID]; ok && now.Sub(last) < minInterval {
		return false
	}
	g.last[principalID] = now
	return true
}
