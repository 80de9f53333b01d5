package middlewares

import (
	"net/http"
	"sync"
	"time"

	"ScreenWatch/api/logx"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// visitor holds the rate limiter and the last time we saw this IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorPool is a set of per-IP limiters sharing one rate.
type visitorPool struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    time.Duration
	burst    int
}

func newVisitorPool(every time.Duration, burst int) *visitorPool {
	return &visitorPool{visitors: make(map[string]*visitor), every: every, burst: burst}
}

var (
	// General traffic, uploads included. Clients upload on a timer so the
	// burst covers several tabs behind one NAT.
	visitors = newVisitorPool(time.Second, 100)

	// Stricter visitors for admin login.
	loginVisitors = newVisitorPool(10*time.Second, 5)
)

func (p *visitorPool) get(ip string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	v, exists := p.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Every(p.every), p.burst)
		p.visitors[ip] = &visitor{
			limiter:  limiter,
			lastSeen: time.Now(),
		}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// prune drops limiters idle for longer than maxIdle and returns how many
// were removed.
func (p *visitorPool) prune(maxIdle time.Duration) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	removed := 0
	for ip, v := range p.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(p.visitors, ip)
			removed++
		}
	}
	return removed
}

func (p *visitorPool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.visitors)
}

// PruneVisitors removes idle limiters from both pools.
func PruneVisitors(maxIdle time.Duration) int {
	return visitors.prune(maxIdle) + loginVisitors.prune(maxIdle)
}

// StartLimiterJanitor schedules PruneVisitors on the given cron spec. The
// caller stops the returned scheduler on shutdown.
func StartLimiterJanitor(spec string, maxIdle time.Duration) (*cron.Cron, error) {
	log := logx.GetScope("ratelimit")
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if n := PruneVisitors(maxIdle); n > 0 {
			log.Debug("pruned idle rate limiters", zap.Int("removed", n))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// RateLimitMiddleware applies a simple per-IP rate limit for all routes.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := visitors.get(c.ClientIP())

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status": http.StatusTooManyRequests,
				"error":  "Too many requests. Please slow down.",
			})
			return
		}

		c.Next()
	}
}

// LoginRateLimitMiddleware applies a stricter per-IP rate limit for auth routes.
func LoginRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := loginVisitors.get(c.ClientIP())

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status": http.StatusTooManyRequests,
				"error":  "Too many authentication attempts. Please wait and try again.",
			})
			return
		}

		c.Next()
	}
}
