package middleware

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"agenda-service/helper"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rps     rate.Limit
	burst   int
	now     func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cl, ok := l.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = cl
	}
	cl.lastSeen = now

	if len(l.clients) > 1024 {
		for k, v := range l.clients {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(l.clients, k)
			}
		}
	}
	return cl.limiter.AllowN(now, 1)
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			helper.AbortWithError(c, http.StatusTooManyRequests, errors.New("rate limit exceeded"), helper.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
