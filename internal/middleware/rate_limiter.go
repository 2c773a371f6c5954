package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"retailing/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window rate limiter ────────────────────────────────────────────────

type window struct {
	count int
	ends  time.Time
}

// RateLimiter counts requests per client IP in fixed windows. Expired
// entries are swept at most once per window so the map cannot grow without
// bound.
type RateLimiter struct {
	name   string
	limit  int
	period time.Duration
	now    func() time.Time

	mu        sync.Mutex
	clients   map[string]*window
	nextSweep time.Time
}

func NewRateLimiter(name string, limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		name:    name,
		limit:   limit,
		period:  period,
		now:     time.Now,
		clients: make(map[string]*window),
	}
}

// Allow records one request from key and reports whether it fits the limit,
// plus the time the current window ends.
func (l *RateLimiter) Allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextSweep) {
		l.sweepLocked(now)
	}

	w, ok := l.clients[key]
	if !ok || now.After(w.ends) {
		w = &window{ends: now.Add(l.period)}
		l.clients[key] = w
	}
	w.count++
	return w.count <= l.limit, w.ends
}

func (l *RateLimiter) sweepLocked(now time.Time) {
	purged := 0
	for k, w := range l.clients {
		if now.After(w.ends) {
			delete(l.clients, k)
			purged++
		}
	}
	l.nextSweep = now.Add(l.period)
	if purged > 0 {
		log.Debug().Str("limiter", l.name).Int("purged", purged).Int("remaining", len(l.clients)).Msg("rate limiter swept")
	}
}

// Middleware rejects requests over the limit with 429.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, ends := l.Allow(c.ClientIP())
		if !ok {
			retry := int(time.Until(ends).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, try again later"))
			return
		}
		c.Next()
	}
}
