package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestClientKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "203.0.113.7:5555"
	if got := ClientKey(c); got != "ip:203.0.113.7" {
		t.Fatalf("ClientKey = %q", got)
	}
	c.Set(userIDKey, "u-1")
	if got := ClientKey(c); got != "user:u-1" {
		t.Fatalf("ClientKey = %q", got)
	}
}

func TestTokenBucket_BurstThen429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tb := NewTokenBucket(0, 2)

	r := gin.New()
	r.Use(RequestID(), tb.Handler())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		codes[i] = w.Code
		if w.Code == http.StatusTooManyRequests && w.Header().Get("Retry-After") != "1" {
			t.Fatalf("missing Retry-After")
		}
	}
	if codes[0] != 204 || codes[1] != 204 || codes[2] != 429 {
		t.Fatalf("codes = %v", codes)
	}
}

func TestTokenBucket_ReplayBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tb := NewTokenBucket(0, 1)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Replay") != "" {
			c.Set(ctxKeyRateBypass, true)
		}
		c.Next()
	}, tb.Handler())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.Header.Set("X-Replay", "1")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNoContent {
			t.Fatalf("replay %d limited: %d", i, w.Code)
		}
	}
}

func TestTokenBucket_EvictsIdle(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tb := NewTokenBucket(1, 1)
	tb.now = func() time.Time { return now }

	tb.limiter("old")
	now = now.Add(tb.ttl)
	tb.lookups = 4999
	tb.limiter("new")

	if tb.Len() != 1 {
		t.Fatalf("idle bucket not evicted, have %d", tb.Len())
	}
}
