package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// IPRateLimiter hands out one token bucket per client IP. Buckets of clients
// that stay quiet for idle are dropped.
type IPRateLimiter struct {
	mu  sync.Mutex
	ips *cache.Cache
	r   rate.Limit
	b   int
}

// NewIPRateLimiter creates a limiter allowing r requests per second with burst b.
func NewIPRateLimiter(r rate.Limit, b int, idle time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		ips: cache.New(idle, 2*idle),
		r:   r,
		b:   b,
	}
}

// Limiter returns the bucket of ip, creating it on first use.
func (l *IPRateLimiter) Limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, found := l.ips.Get(ip); found {
		limiter := v.(*rate.Limiter)
		l.ips.Set(ip, limiter, cache.DefaultExpiration)
		return limiter
	}
	limiter := rate.NewLimiter(l.r, l.b)
	l.ips.Set(ip, limiter, cache.DefaultExpiration)
	return limiter
}

// RateLimiter rejects clients exceeding r requests per second with 429.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewIPRateLimiter(r, b, 10*time.Minute)
	retryAfter := "1"
	if r > 0 && r < 1 {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / float64(r))))
	}
	return func(c *gin.Context) {
		if !limiter.Limiter(c.ClientIP()).Allow() {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
