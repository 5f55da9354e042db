package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestSimpleRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	r := gin.New()
	r.GET("/ws", simpleRateLimit(2, time.Minute, clock), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.RemoteAddr = ip + ":5000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if got := do("10.0.0.1"); got != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, got)
		}
	}
	if got := do("10.0.0.1"); got != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", got)
	}
	if got := do("10.0.0.2"); got != http.StatusOK {
		t.Fatalf("other client: expected 200 got %d", got)
	}

	now = now.Add(61 * time.Second)
	if got := do("10.0.0.1"); got != http.StatusOK {
		t.Fatalf("after window: expected 200 got %d", got)
	}
}

func TestRateLimitWithoutRedisFallsBack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", RateLimit(nil, 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}
}
