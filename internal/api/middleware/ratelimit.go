package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"

	"github.com/pixelcraft/agency-api/internal/models"
)

// NewLimiterStore returns a Redis-backed store when client is set and an
// in-process store otherwise. Each limit needs its own prefix.
func NewLimiterStore(client *redis.Client, prefix string) (limiter.Store, error) {
	if client == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: prefix}), nil
	}
	return sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: prefix})
}

// RateLimit limits requests per client IP. rateFormatted uses the limiter
// notation: "100-M", "1000-H", "5-S". An empty rate disables the limit.
func RateLimit(store limiter.Store, rateFormatted, message string, log *zap.Logger) (gin.HandlerFunc, error) {
	if rateFormatted == "" {
		return func(c *gin.Context) { c.Next() }, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}

	return mgin.NewMiddleware(limiter.New(store, rate),
		mgin.WithKeyGetter(func(c *gin.Context) string { return c.ClientIP() }),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// fail open when the store is unavailable
			log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
		}),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Success: false,
				Message: message,
			})
		}),
	), nil
}
