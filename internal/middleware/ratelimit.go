package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limit is a fixed window budget per client IP.
type Limit struct {
	Name    string
	Max     int64
	Window  time.Duration
	Message string
}

var (
	APILimit = Limit{
		Name:    "api",
		Max:     1200,
		Window:  5 * time.Minute,
		Message: "Too many requests. Please slow down.",
	}
	AuthLimit = Limit{
		Name:    "auth",
		Max:     25,
		Window:  10 * time.Minute,
		Message: "Too many failed attempts. Try again later.",
	}
	UploadLimit = Limit{
		Name:    "upload",
		Max:     20,
		Window:  24 * time.Hour,
		Message: "Upload limit reached for today.",
	}
)

type counter interface {
	incr(ctx context.Context, key string) (int64, error)
	expire(ctx context.Context, key string, window time.Duration) error
}

type redisCounter struct {
	rdb *redis.Client
}

func (r redisCounter) incr(ctx context.Context, key string) (int64, error) {
	return r.rdb.Incr(ctx, key).Result()
}

func (r redisCounter) expire(ctx context.Context, key string, window time.Duration) error {
	return r.rdb.PExpire(ctx, key, window).Err()
}

// RateLimit enforces limit per client IP using Redis counters. A nil client
// disables limiting.
func RateLimit(rdb *redis.Client, limit Limit, log *zap.Logger) gin.HandlerFunc {
	if rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rateLimit(redisCounter{rdb: rdb}, limit, time.Now, log)
}

func rateLimit(store counter, limit Limit, now func() time.Time, log *zap.Logger) gin.HandlerFunc {
	log = log.Named("ratelimit")
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		window := now().UnixMilli() / limit.Window.Milliseconds()
		key := fmt.Sprintf("ab:rate_limit:%s:%s:%d", limit.Name, ip, window)

		count, err := store.incr(c.Request.Context(), key)
		if err != nil {
			log.Warn("rate limit counter unavailable", zap.String("limit", limit.Name), zap.Error(err))
			c.Next()
			return
		}
		// A key without a TTL never resets, so a failed expiry is logged.
		if count == 1 {
			if err := store.expire(c.Request.Context(), key, limit.Window); err != nil {
				log.Warn("rate limit expiry not set", zap.String("limit", limit.Name), zap.String("key", key), zap.Error(err))
			}
		}

		remaining := limit.Max - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("RateLimit-Limit", strconv.FormatInt(limit.Max, 10))
		c.Header("RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > limit.Max {
			reset := limit.Window - time.Duration(now().UnixMilli()%limit.Window.Milliseconds())*time.Millisecond
			c.Header("Retry-After", strconv.Itoa(int(reset.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": limit.Message,
			})
			return
		}
		c.Next()
	}
}
