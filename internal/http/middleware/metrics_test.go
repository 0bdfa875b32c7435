package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RouteAndUnmatchedLabels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/items/:id", func(c *gin.Context) { c.String(http.StatusOK, "x") })

	routed := httpReqs.WithLabelValues(http.MethodGet, "/items/:id", "200")
	unmatched := httpReqs.WithLabelValues(http.MethodGet, unmatchedRoute, "404")
	before, beforeU := testutil.ToFloat64(routed), testutil.ToFloat64(unmatched)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/2", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/abc", nil))

	if got := testutil.ToFloat64(routed) - before; got != 2 {
		t.Fatalf("routed delta = %v", got)
	}
	if got := testutil.ToFloat64(unmatched) - beforeU; got != 1 {
		t.Fatalf("unmatched delta = %v", got)
	}
	if testutil.ToFloat64(httpInflight) != 0 {
		t.Fatalf("inflight gauge not released")
	}
}
