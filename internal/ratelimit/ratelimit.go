// Package ratelimit provides a keyed token-bucket rate limiter, used to
// throttle API requests per client address.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyedLimiter manages per-key rate limiting. Each unique key (typically
// a client IP) gets its own independent token bucket. Buckets idle for
// longer than the eviction window are dropped, so the map stays bounded
// even with a churning client population.
type KeyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int

	done     chan struct{}
	stopOnce sync.Once
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// evictAfter is how long a key may sit unused before its bucket is dropped.
const evictAfter = 10 * time.Minute

// New creates a keyed rate limiter.
// rps: requests per second allowed per key.
// burst: tokens available immediately per key.
func New(rps float64, burst int) *KeyedLimiter {
	kl := &KeyedLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Limit(rps),
		burst:    burst,
		done:     make(chan struct{}),
	}

	go kl.evictLoop()

	return kl
}

// Allow reports whether a request for the key should proceed.
// Returns immediately without blocking.
func (kl *KeyedLimiter) Allow(key string) bool {
	return kl.getLimiter(key).Allow()
}

// Wait blocks until a request for the key is allowed or the context is
// canceled.
func (kl *KeyedLimiter) Wait(ctx context.Context, key string) error {
	return kl.getLimiter(key).Wait(ctx)
}

func (kl *KeyedLimiter) getLimiter(key string) *rate.Limiter {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	cl, exists := kl.limiters[key]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(kl.limit, kl.burst)}
		kl.limiters[key] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

// Stop shuts down the eviction goroutine.
func (kl *KeyedLimiter) Stop() {
	kl.stopOnce.Do(func() {
		close(kl.done)
	})
}

func (kl *KeyedLimiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-kl.done:
			return
		case <-ticker.C:
			kl.evictIdle(time.Now())
		}
	}
}

func (kl *KeyedLimiter) evictIdle(now time.Time) {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	for key, cl := range kl.limiters {
		if now.Sub(cl.lastSeen) > evictAfter {
			delete(kl.limiters, key)
		}
	}
}
