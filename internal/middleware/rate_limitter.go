package middleware

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

type rateLimiter struct {
	bucket    map[string]*rate.Limiter
	rate      rate.Limit
	burstSize int
	mutex     *sync.Mutex
}

func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		bucket:    make(map[string]*rate.Limiter),
		rate:      reqRate,
		burstSize: burstSize,
		mutex:     &sync.Mutex{},
	}
}

func (r *rateLimiter) GetLimiterFrom(key string) *rate.Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exist := r.bucket[key]; !exist {
		r.bucket[key] = rate.NewLimiter(r.rate, r.burstSize)
	}

	return r.bucket[key]
}

// RateLimitKey identifies a client for the turn limiter: operators behind one
// gateway share an IP but not a session.
func RateLimitKey(ip, sessionID string) string {
	return ip + "|" + sessionID
}

// AllowTurn spends one token of key's limiter. Websocket turns, which never
// pass through NewRateLimiter, are metered with it message by message.
func (m *middleware) AllowTurn(key string) bool {
	if m.rateLimitter.GetLimiterFrom(key).Allow() {
		return true
	}

	m.log.Warnf("too many requests for %s", key)
	return false
}

func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	if !m.AllowTurn(RateLimitKey(ctx.IP(), ctx.Get("X-Session-ID"))) {
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Too many requests",
			"code":  "RATE_LIMITED",
		})
	}

	return ctx.Next()
}
