package processor

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket shared by callers of a rate-limited resource:
// outbound OpenSky requests and inbound decode requests.
type RateLimiter struct {
	limiter      *rate.Limiter
	perSecond    float64
	burstSize    int
	mu           sync.RWMutex
	grantedCount int64
	deniedCount  int64
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(perSecond float64, burstSize int) *RateLimiter {
	return &RateLimiter{
		limiter:   rate.NewLimiter(rate.Limit(perSecond), burstSize),
		perSecond: perSecond,
		burstSize: burstSize,
	}
}

// Allow reports whether a call may proceed now, without waiting.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	allowed := rl.limiter.Allow()
	if allowed {
		rl.grantedCount++
	} else {
		rl.deniedCount++
	}
	return allowed
}

// Wait blocks until a call may proceed or ctx is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	err := rl.limiter.Wait(ctx)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if err != nil {
		rl.deniedCount++
		return err
	}
	rl.grantedCount++
	return nil
}

// GetStats returns how many calls were granted and denied so far.
func (rl *RateLimiter) GetStats() (granted, denied int64) {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	return rl.grantedCount, rl.deniedCount
}

// ResetStats resets the statistics
func (rl *RateLimiter) ResetStats() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.grantedCount = 0
	rl.deniedCount = 0
}

// GetLimit returns current rate limit settings
func (rl *RateLimiter) GetLimit() (perSecond float64, burstSize int) {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	return rl.perSecond, rl.burstSize
}
