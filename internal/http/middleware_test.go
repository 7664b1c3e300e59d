package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestIPRateLimiterPerClient(t *testing.T) {
	l := newIPRateLimiter(rate.Every(time.Minute), 2, time.Hour)
	now := time.Now()

	assert.True(t, l.allow("10.0.0.1", now))
	assert.True(t, l.allow("10.0.0.1", now))
	assert.False(t, l.allow("10.0.0.1", now))
	assert.True(t, l.allow("10.0.0.2", now))

	// one token back after the refill interval
	assert.True(t, l.allow("10.0.0.1", now.Add(time.Minute)))
}

func TestIPRateLimiterSweepsIdleClients(t *testing.T) {
	l := newIPRateLimiter(rate.Every(time.Second), 1, time.Minute)
	start := time.Now()
	l.allow("10.0.0.1", start)
	l.allow("10.0.0.2", start)
	assert.Equal(t, 2, l.len())

	l.allow("10.0.0.3", start.Add(2*time.Minute))
	assert.Equal(t, 1, l.len())
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", clientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(r))
}
