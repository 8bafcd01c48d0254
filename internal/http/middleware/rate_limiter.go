package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"proposal-service/internal/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRetryAfter         = "Retry-After"
	msgRateLimitExceeded     = "rate limit exceeded"
)

// RateLimiter implements token bucket rate limiting per identity
type RateLimiter struct {
	limiters sync.Map // key -> *rate.Limiter
	rate     rate.Limit
	burst    int
	scope    string
}

// NewRateLimiter creates a new rate limiter
// requestsPerSecond: number of requests allowed per second
// burst: maximum burst size
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		rate:  rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

// getLimiter gets or creates a rate limiter for the given key
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rate, rl.burst))
	return limiter.(*rate.Limiter)
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware limits signed-in admins by user id and everyone else by client
// IP. A public limiter additionally scopes the key to the shared proposal.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := rl.getLimiter(rl.key(c))

			if !limiter.Allow() {
				c.Response().Header().Set(headerRateLimitLimit, strconv.Itoa(rl.burst))
				c.Response().Header().Set(headerRateLimitRemaining, "0")
				c.Response().Header().Set(headerRetryAfter, "1")

				return respondMessage(c, http.StatusTooManyRequests, msgRateLimitExceeded)
			}

			c.Response().Header().Set(headerRateLimitLimit, strconv.Itoa(rl.burst))
			c.Response().Header().Set(headerRateLimitRemaining, strconv.Itoa(int(limiter.Tokens())))

			return next(c)
		}
	}
}

func (rl *RateLimiter) key(c echo.Context) string {
	var key string
	if userID, ok := c.Get(auth.ContextKeyUserID).(uuid.UUID); ok {
		key = "user:" + userID.String()
	} else {
		key = "ip:" + c.RealIP()
	}

	if rl.scope != "" {
		key += "|" + rl.scope + ":" + c.Param(rl.scope)
	}
	return key
}

// NewStrictRateLimiter is for signup and login.
func NewStrictRateLimiter() *RateLimiter {
	return NewRateLimiter(5, 10)
}

// NewPublicRateLimiter is for shared proposal links, keyed per IP and proposal.
func NewPublicRateLimiter() *RateLimiter {
	rl := NewRateLimiter(2, 20)
	rl.scope = paramID
	return rl
}

// NewGlobalRateLimiter is a lenient limiter for all traffic.
func NewGlobalRateLimiter() *RateLimiter {
	return NewRateLimiter(100, 200)
}
