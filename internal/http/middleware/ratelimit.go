// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the edge token-bucket limiter that guards the question
// bank routes against bursts. It is separate from the chat admission window
// enforced by the chat service: the bucket protects the process, the window
// meters answers per client.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ClientKey identifies the caller: "user:<id>" when auth middleware stored a
// userID, otherwise "ip:<addr>".
func ClientKey(c *gin.Context) string {
	if uid := UserID(c); uid != "" {
		return "user:" + uid
	}
	return "ip:" + c.ClientIP()
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TokenBucket is a per-client token-bucket limiter with idle eviction.
// Safe for concurrent use.
type TokenBucket struct {
	rps   rate.Limit
	burst int
	keyFn func(*gin.Context) string
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
	lookups uint64
}

// NewTokenBucket returns a limiter refilling rps tokens per second up to
// burst, keyed by ClientKey. Burst values below 1 are coerced to 1.
func NewTokenBucket(rps float64, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	return &TokenBucket{
		rps:     rate.Limit(rps),
		burst:   burst,
		keyFn:   ClientKey,
		ttl:     10 * time.Minute,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (tb *TokenBucket) limiter(key string) *rate.Limiter {
	now := tb.now()

	tb.mu.Lock()
	defer tb.mu.Unlock()

	// Evict before touching key so a stale bucket for key is recreated fresh.
	tb.lookups++
	if tb.lookups >= 5000 {
		for k, b := range tb.buckets {
			if now.Sub(b.lastSeen) >= tb.ttl {
				delete(tb.buckets, k)
			}
		}
		tb.lookups = 0
	}

	if b, ok := tb.buckets[key]; ok {
		b.lastSeen = now
		return b.limiter
	}
	lim := rate.NewLimiter(tb.rps, tb.burst)
	tb.buckets[key] = &bucket{limiter: lim, lastSeen: now}
	return lim
}

// Len reports how many client buckets are held.
func (tb *TokenBucket) Len() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return len(tb.buckets)
}

// IsRateBypass reports whether IdempotencyValidator marked the request as a
// replay, which skips the bucket.
func IsRateBypass(c *gin.Context) bool {
	return c.GetBool(ctxKeyRateBypass)
}

// Handler enforces the bucket. Rejections answer 429 with Retry-After: 1.
func (tb *TokenBucket) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) || tb.limiter(tb.keyFn(c)).Allow() {
			c.Next()
			return
		}
		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": RequestIDFrom(c),
			"code":       "rate_limited",
			"message":    "rate limit exceeded",
		})
	}
}
