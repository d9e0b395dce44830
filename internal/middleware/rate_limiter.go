package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"flota/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const rateLimitPrefix = "ratelimit:"

// RateLimiter is a fixed-window limiter keyed by client IP and stored in
// Redis, so the limit holds across replicas. Requests pass when Redis is
// unreachable.
func RateLimiter(rdb *redis.Client, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("%s%s:%s", rateLimitPrefix, scope, c.ClientIP())

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("rate limiter: redis unavailable")
			c.Next()
			return
		}
		if count == 1 {
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter: expire failed")
			}
		}

		if count > int64(limit) {
			ttl, err := rdb.TTL(ctx, key).Result()
			if err != nil || ttl < 0 {
				ttl = window
			}
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds()+0.5)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter(rdb *redis.Client) gin.HandlerFunc {
	return RateLimiter(rdb, "login", 20, time.Minute)
}
