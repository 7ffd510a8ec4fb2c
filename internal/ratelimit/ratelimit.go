// Package ratelimit throttles analysis requests per client IP. It uses a
// Redis sliding window when Redis is configured and degrades to in-memory
// token buckets when it is not.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	apperrors "github.com/credlens/credlens/internal/errors"
)

// Limiter enforces a per-IP requests-per-minute budget.
type Limiter struct {
	perMinute    int
	redisLimiter *redis_rate.Limiter
	logger       *slog.Logger

	mu       sync.Mutex
	fallback map[string]*rate.Limiter
}

// New builds a limiter. redisAddr may be empty to run in-memory only; a
// failed Redis connection also degrades to in-memory rather than failing.
func New(redisAddr string, perMinute int, logger *slog.Logger) *Limiter {
	if logger == nil {
		logger = slog.Default()
	}
	if perMinute <= 0 {
		perMinute = 30
	}
	l := &Limiter{
		perMinute: perMinute,
		logger:    logger,
		fallback:  make(map[string]*rate.Limiter),
	}
	if redisAddr == "" {
		logger.Info("rate limiting using in-memory token buckets")
		return l
	}

	client := redis.NewClient(&redis.Options{
		Addr:         redisAddr,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limiting falls back to in-memory", "error", err)
		return l
	}
	l.redisLimiter = redis_rate.NewLimiter(client)
	logger.Info("redis rate limiter initialized", "addr", redisAddr)
	return l
}

// Allow reports whether the IP may proceed, with a retry hint when not.
func (l *Limiter) Allow(ctx context.Context, ip string) (bool, time.Duration) {
	if l.redisLimiter != nil {
		key := fmt.Sprintf("ratelimit:ip:%s", ip)
		res, err := l.redisLimiter.Allow(ctx, key, redis_rate.PerMinute(l.perMinute))
		if err == nil {
			return res.Allowed > 0, res.RetryAfter
		}
		l.logger.Warn("redis rate limit check failed, using fallback", "error", err)
	}
	return l.allowFallback(ip)
}

func (l *Limiter) allowFallback(ip string) (bool, time.Duration) {
	l.mu.Lock()
	limiter, ok := l.fallback[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(l.perMinute)/60.0), l.perMinute)
		l.fallback[ip] = limiter
	}
	l.mu.Unlock()

	if limiter.Allow() {
		return true, 0
	}
	return false, time.Minute
}

// Middleware rejects over-budget requests with a structured 429.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := l.Allow(c.Request.Context(), c.ClientIP())
		if allowed {
			c.Next()
			return
		}
		appErr := apperrors.NewRateLimitError(retryAfter.String())
		c.Header("Retry-After", fmt.Sprintf("%.0f", retryAfter.Seconds()))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":       "rate limit exceeded",
			"category":    appErr.Category,
			"retry_after": retryAfter.String(),
		})
	}
}
