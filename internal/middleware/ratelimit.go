package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/spotpulse/internal/domain/dto"
)

// client is a fixed-window counter for one IP.
type client struct {
	windowStart time.Time
	count       int
}

// In-memory limiter state, shared by every RateLimiter instance.
// NOTE: per-process only; instances behind a load balancer each count separately.
var (
	clients         = make(map[string]*client)
	window          = time.Minute
	limit           = 60
	lastSweep       time.Time
	rateLimiterLock sync.Mutex
)

// RateLimiter limits each client IP to `limit` requests per fixed `window`
// (default: 60 per minute) and answers 429 with a Retry-After header beyond
// that. Idle entries are evicted on access.
func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		rateLimiterLock.Lock()
		cl, ok := clients[ip]
		if !ok || now.Sub(cl.windowStart) >= window {
			cl = &client{windowStart: now}
			clients[ip] = cl
		}
		cl.count++
		exceeded := cl.count > limit
		retryAfter := cl.windowStart.Add(window).Sub(now)
		evictIdle(now)
		rateLimiterLock.Unlock()

		if exceeded {
			c.Header("Retry-After", retryAfterSeconds(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}

		c.Next()
	}
}

// evictIdle drops clients whose window closed more than one window ago. It
// sweeps at most once per window. Caller must hold rateLimiterLock.
func evictIdle(now time.Time) {
	if now.Sub(lastSweep) < window {
		return
	}
	lastSweep = now
	for ip, cl := range clients {
		if now.Sub(cl.windowStart) > 2*window {
			delete(clients, ip)
		}
	}
}

func retryAfterSeconds(d time.Duration) string {
	s := int((d + time.Second - 1) / time.Second)
	if s < 1 {
		s = 1
	}
	return strconv.Itoa(s)
}
