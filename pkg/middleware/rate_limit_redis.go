package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/projectziio/ziio-ai/pkg/logger"
	"github.com/projectziio/ziio-ai/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimitMiddleware is a fixed-window limiter shared by every instance
// behind the same Redis. Each client (see clientKey) may make
// floor(rps*window)+burst requests per window. When Redis cannot be reached
// the request is let through and counted as "redis_unavailable".
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	win := int64(window.Seconds())
	if win <= 0 {
		win = 1
	}
	limit := int64(rps*float64(win)) + int64(burst)

	return func(c *gin.Context) {
		now := time.Now().Unix()
		key := "rl:" + clientKey(c) + ":" + strconv.FormatInt(now/win, 10)

		var incr *redis.IntCmd
		_, err := client.TxPipelined(c.Request.Context(), func(p redis.Pipeliner) error {
			incr = p.Incr(c.Request.Context(), key)
			p.Expire(c.Request.Context(), key, time.Duration(win+1)*time.Second)
			return nil
		})
		if err != nil {
			logger.Warnf("rate limit: redis unavailable, allowing request: %v", err)
			metrics.RateLimitAllowed.WithLabelValues("redis_unavailable").Inc()
			c.Next()
			return
		}
		if incr.Val() > limit {
			c.Header("Retry-After", strconv.FormatInt(win-now%win, 10))
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
