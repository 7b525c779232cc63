package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMiddlewarePerIP(t *testing.T) {
	l := New(0.001, 2)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5002"), "same IP, other port")
	assert.Equal(t, http.StatusOK, call("10.0.0.2:5000"))
}

func TestIdleVisitorsAreSwept(t *testing.T) {
	l := New(1, 1)
	start := time.Now()
	l.now = func() time.Time { return start }
	l.Allow("a")

	l.now = func() time.Time { return start.Add(idleAfter + sweepEvery + time.Second) }
	l.Allow("b")

	assert.NotContains(t, l.visitors, "a")
	assert.Contains(t, l.visitors, "b")
}
