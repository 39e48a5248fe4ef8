package engine

import (
	"math"
	"sync"
	"time"
)

// MinCooldown is the shortest allowed gap between two lookup starts.
const MinCooldown = time.Second

// Cooldown admits at most one lookup start per period, regardless of how
// many targets a lookup fans out to.
type Cooldown struct {
	mu     sync.Mutex
	period time.Duration
	last   time.Time // zero until the first accepted start
}

// NewCooldown creates a Cooldown; periods below MinCooldown are raised to it.
func NewCooldown(period time.Duration) *Cooldown {
	c := &Cooldown{}
	c.SetPeriod(period)
	return c
}

// SetPeriod changes the cooldown for subsequent calls.
func (c *Cooldown) SetPeriod(period time.Duration) {
	if period < MinCooldown {
		period = MinCooldown
	}
	c.mu.Lock()
	c.period = period
	c.mu.Unlock()
}

// Period returns the current cooldown.
func (c *Cooldown) Period() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.period
}

// TryBegin records a lookup start at now if the cooldown has elapsed.
// Otherwise it returns false and the whole seconds left, rounded up (at least 1).
func (c *Cooldown) TryBegin(now time.Time) (bool, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.last.IsZero() {
		elapsed := now.Sub(c.last)
		if elapsed < 0 {
			elapsed = 0
		}
		if elapsed < c.period {
			remaining := int(math.Ceil((c.period - elapsed).Seconds()))
			if remaining < 1 {
				remaining = 1
			}
			return false, remaining
		}
	}
	c.last = now
	return true, 0
}
