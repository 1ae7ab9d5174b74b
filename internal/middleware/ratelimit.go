package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ExpiringCounter counts hits per key in fixed windows. Expired windows are
// dropped lazily and the oldest window is evicted when maxKeys is reached.
type ExpiringCounter struct {
	mu      sync.Mutex
	window  time.Duration
	maxKeys int
	entries map[string]*counterEntry
	now     func() time.Time
}

type counterEntry struct {
	count     int
	expiresAt time.Time
}

// NewExpiringCounter creates a counter with the given window length
func NewExpiringCounter(window time.Duration, maxKeys int) *ExpiringCounter {
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	return &ExpiringCounter{
		window:  window,
		maxKeys: maxKeys,
		entries: make(map[string]*counterEntry),
		now:     time.Now,
	}
}

// Hit records one hit for key and returns the count in the current window
// together with the time the window ends.
func (c *ExpiringCounter) Hit(key string) (int, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	entry, ok := c.entries[key]
	if !ok || !now.Before(entry.expiresAt) {
		if !ok && len(c.entries) >= c.maxKeys {
			c.evict(now)
		}
		entry = &counterEntry{expiresAt: now.Add(c.window)}
		c.entries[key] = entry
	}
	entry.count++
	return entry.count, entry.expiresAt
}

// Len returns the number of tracked keys.
func (c *ExpiringCounter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evict drops expired windows, or the one closest to expiry when none has
// expired yet. Callers hold mu.
func (c *ExpiringCounter) evict(now time.Time) {
	var oldestKey string
	var oldest time.Time
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			continue
		}
		if oldestKey == "" || entry.expiresAt.Before(oldest) {
			oldestKey, oldest = key, entry.expiresAt
		}
	}
	if len(c.entries) >= c.maxKeys && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// RateLimit rejects clients that exceed limit requests per window with 429.
// A non-positive limit disables the middleware.
func RateLimit(counter *ExpiringCounter, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || counter == nil {
			c.Next()
			return
		}

		count, resetAt := counter.Hit(c.ClientIP())
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > limit {
			retryAfter := int(math.Ceil(resetAt.Sub(counter.now()).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "Too Many Requests",
				"message": "Rate limit exceeded, retry later",
			})
			return
		}
		c.Next()
	}
}
