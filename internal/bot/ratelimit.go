package bot

import (
	"sync"
	"time"
)

const (
	defaultCommandBurst     = 3
	defaultCommandsPerMin   = 20.0
	rateLimiterIdleEviction = 10 * time.Minute
)

// RateLimiter is a per-sender token bucket throttling chat commands so a
// single admin cannot flood the group with mutations.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	max     float64
	rate    float64 // tokens per second
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

func NewRateLimiter(maxBurst int, ratePerMinute float64) *RateLimiter {
	if maxBurst <= 0 {
		maxBurst = defaultCommandBurst
	}
	if ratePerMinute <= 0 {
		ratePerMinute = defaultCommandsPerMin
	}
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		max:     float64(maxBurst),
		rate:    ratePerMinute / 60.0,
	}
}

// Allow consumes one token for the sender if available. It never blocks:
// the caller turns a false result into a user-visible reply.
func (rl *RateLimiter) Allow(sender string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[sender]
	if !ok {
		b = &bucket{tokens: rl.max, lastSeen: now}
		rl.buckets[sender] = b
		rl.evictIdle(now)
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * rl.rate
	if b.tokens > rl.max {
		b.tokens = rl.max
	}
	b.lastSeen = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true
	}
	return false
}

// evictIdle drops buckets that refilled long ago so the map does not grow
// with every player who ever issued a command. Called with mu held.
func (rl *RateLimiter) evictIdle(now time.Time) {
	for sender, b := range rl.buckets {
		if now.Sub(b.lastSeen) > rateLimiterIdleEviction {
			delete(rl.buckets, sender)
		}
	}
}
