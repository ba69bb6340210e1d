package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP and forgets idle IPs after ttl.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	perMinute int
	burst     int
	ttl       time.Duration
	now       func() time.Time
}

func NewIPRateLimiter(perMinute, burst int, ttl time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		visitors:  make(map[string]*visitor),
		perMinute: perMinute,
		burst:     burst,
		ttl:       ttl,
		now:       time.Now,
	}
}

func (rl *IPRateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.visitors[ip]; ok {
		v.lastSeen = rl.now()
		return v.limiter
	}

	l := rate.NewLimiter(rate.Limit(float64(rl.perMinute)/60.0), rl.burst)
	rl.visitors[ip] = &visitor{limiter: l, lastSeen: rl.now()}
	return l
}

// Allow reports whether ip may make another request now.
func (rl *IPRateLimiter) Allow(ip string) bool {
	return rl.limiter(ip).Allow()
}

// Cleanup drops visitors idle for longer than ttl and returns how many were removed.
func (rl *IPRateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for ip, v := range rl.visitors {
		if rl.now().Sub(v.lastSeen) > rl.ttl {
			delete(rl.visitors, ip)
			removed++
		}
	}
	return removed
}

// Run sweeps idle visitors every minute until ctx is done.
func (rl *IPRateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Cleanup(); n > 0 {
				slog.DebugContext(ctx, "rate limiter swept idle visitors", "removed", n)
			}
		}
	}
}

// RateLimitByIP rejects requests over the per-IP budget with 429.
func RateLimitByIP(rl *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			slog.WarnContext(c.Request.Context(), "rate limit exceeded", "client_ip", c.ClientIP(), "route", c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again shortly"})
			return
		}
		c.Next()
	}
}
