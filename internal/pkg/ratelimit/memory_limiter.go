package ratelimit

import (
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type memoryLimiter struct {
	mu     sync.Mutex
	store  *cache.Cache
	window time.Duration
	max    int
}

// NewMemoryLimiter is the single-process fallback used when no Redis URL is
// configured. Same fixed-window behavior, counters held in an expiring cache.
func NewMemoryLimiter(window time.Duration, max int) Limiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &memoryLimiter{
		store:  cache.New(window, 2*window),
		window: window,
		max:    max,
	}
}

func (l *memoryLimiter) Allow(key string) bool {
	normalizedKey := strings.ToLower(strings.TrimSpace(key))
	if normalizedKey == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Add(normalizedKey, 1, l.window); err == nil {
		return l.max >= 1
	}
	count, err := l.store.IncrementInt(normalizedKey, 1)
	if err != nil {
		// Counter expired between Add and Increment
		l.store.Set(normalizedKey, 1, l.window)
		return l.max >= 1
	}
	return count <= l.max
}
