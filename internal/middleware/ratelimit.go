package middleware

import (
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

const limiterCacheSize = 10000

// RateLimiter keeps one token bucket per user. Idle buckets are evicted LRU.
type RateLimiter struct {
	users *lru.Cache[uint, *rate.Limiter]
	r     rate.Limit
	b     int
}

// NewRateLimiter allows requests per period with the given burst,
// e.g. (30, time.Minute, 10).
func NewRateLimiter(requests int, per time.Duration, burst int) (*RateLimiter, error) {
	if requests <= 0 {
		requests = 1
	}
	if burst <= 0 {
		burst = 1
	}
	users, err := lru.New[uint, *rate.Limiter](limiterCacheSize)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		users: users,
		r:     rate.Every(per / time.Duration(requests)),
		b:     burst,
	}, nil
}

func (l *RateLimiter) Allow(userID uint) bool {
	limiter, ok := l.users.Get(userID)
	if !ok {
		limiter = rate.NewLimiter(l.r, l.b)
		// another request may have raced us in; keep whichever landed first
		if prev, found, _ := l.users.PeekOrAdd(userID, limiter); found {
			limiter = prev
		}
	}
	return limiter.Allow()
}

// Limit 限制已登录用户的写操作频率，超出返回 429。
// Must run after LoadUser; anonymous requests pass through.
func (l *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user != nil && !l.Allow(user.ID) {
			c.Header("Retry-After", "1")
			AbortWithError(c, apperr.New(apperr.KindRateLimited, "too many requests, slow down"))
			return
		}
		c.Next()
	}
}
