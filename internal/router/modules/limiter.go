package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-catalog/internal/interface/middleware"
)

// Limiter builds redis-backed rate limit middleware. A nil Redis disables limiting.
type Limiter struct {
	Redis *redis.Client
	Allow middleware.AllowFunc
}

func (l Limiter) PerIP(max int, window time.Duration) gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, max, window, middleware.KeyByIP(), l.Allow)
}

func (l Limiter) PerIPAndPath(max int, window time.Duration) gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, max, window, middleware.KeyByIPAndPath(), l.Allow)
}

// PerUser must run after middleware.Auth.
func (l Limiter) PerUser(max int, window time.Duration) gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, max, window, middleware.KeyByUserID(), l.Allow)
}
