package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter initializes a shared Redis client used by the
// middleware. If the connection fails, redisClient remains nil and the
// middleware acts as fail-open.
func InitRedisRateLimiter(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	redisClient = redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// on ping failure, disable redis client to keep server available
		redisClient = nil
	}
	return redisClient
}

// RedisRateLimit implements a fixed-window per-IP rate limiter using Redis
// INCR/EXPIRE. key format: rl:<window_seconds>:<identifier>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		limitByKey(c, "rl:"+strconv.FormatInt(int64(window.Seconds()), 10)+":"+c.ClientIP(), maxRequests, window)
	}
}

// FundsRateLimit rate-limits per authenticated user rather than per IP, for
// money-moving endpoints. Must run after JWT.
func FundsRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := c.Get("user_id")
		if !ok {
			c.Next()
			return
		}
		id, _ := uid.(int64)
		limitByKey(c, "rl:funds:"+strconv.FormatInt(id, 10), maxRequests, window)
	}
}

func limitByKey(c *gin.Context, key string, maxRequests int, window time.Duration) {
	if redisClient == nil {
		// fallback to allowing requests if Redis not configured
		c.Next()
		return
	}

	ctx := context.Background()
	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		// on Redis error, fail-open (allow) but set header
		c.Header("X-RateLimit-Error", "redis-error")
		c.Next()
		return
	}

	if val == 1 {
		redisClient.Expire(ctx, key, window)
	}

	if val > int64(maxRequests) {
		RLBlocked.WithLabelValues(c.FullPath()).Inc()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	RLRequests.WithLabelValues(c.FullPath()).Inc()
	c.Next()
}
