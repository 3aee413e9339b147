package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterBlocksBursts(t *testing.T) {
	rl := NewRateLimiter(2) // burst of 1

	r := gin.New()
	r.GET("/", rl.Middleware(), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := send(); code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("burst exceeded: expected 429, got %d", code)
	}
}

func TestRateLimiterIsPerIP(t *testing.T) {
	rl := NewRateLimiter(2)

	r := gin.New()
	r.GET("/", rl.Middleware(), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := send("10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("first ip: expected 200, got %d", code)
	}
	if code := send("10.0.0.2:1234"); code != http.StatusOK {
		t.Fatalf("second ip must have its own bucket, got %d", code)
	}
}
