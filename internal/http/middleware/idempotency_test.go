package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestIdempotencyValidator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	captureLogger(t)

	fixed := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	var gotUser, gotScope, gotKey string
	var gotNow time.Time
	lookup := func(_ context.Context, userID, scope, key string, now time.Time) (bool, error) {
		gotUser, gotScope, gotKey, gotNow = userID, scope, key, now
		switch key {
		case "seen":
			return true, nil
		case "broken":
			return true, errors.New("db down")
		}
		return false, nil
	}

	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{Scope: "publish", Now: func() time.Time { return fixed }}, lookup))
	r.POST("/p", func(c *gin.Context) {
		key, _ := GetIdempotencyKey(c)
		c.JSON(http.StatusOK, gin.H{"key": key, "replay": IsReplay(c), "bypass": IsRateBypass(c)})
	})

	do := func(key string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/p", nil)
		if key != "" {
			req.Header.Set(HeaderIdempotencyKey, key)
		}
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(""); w.Code != 200 || !strings.Contains(w.Body.String(), `"replay":false`) {
		t.Fatalf("no header: %d %s", w.Code, w.Body.String())
	}
	for _, bad := range []string{"has space", strings.Repeat("k", 201)} {
		if w := do(bad); w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "bad_idempotency_key") {
			t.Fatalf("bad key %q: %d", bad, w.Code)
		}
	}

	w := do("seen")
	if !strings.Contains(w.Body.String(), `"replay":true`) || !strings.Contains(w.Body.String(), `"bypass":true`) {
		t.Fatalf("replay not flagged: %s", w.Body.String())
	}
	if gotUser != "anonymous" || gotScope != "publish" || gotKey != "seen" || !gotNow.Equal(fixed) {
		t.Fatalf("lookup args: %q %q %q %v", gotUser, gotScope, gotKey, gotNow)
	}

	if w := do("broken"); !strings.Contains(w.Body.String(), `"replay":false`) {
		t.Fatalf("lookup error must not flag replay: %s", w.Body.String())
	}
	if w := do("fresh:key-1"); !strings.Contains(w.Body.String(), `"key":"fresh:key-1"`) {
		t.Fatalf("key not stashed: %s", w.Body.String())
	}
}

func TestIdempotencyUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if IdempotencyUser(c) != "anonymous" {
		t.Fatalf("want anonymous")
	}
	c.Set(userIDKey, "u-9")
	if IdempotencyUser(c) != "u-9" {
		t.Fatalf("want u-9")
	}
}
