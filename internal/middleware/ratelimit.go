package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// APIRateLimiter - общий лимит на /api: 100 запросов в час с одного IP
func APIRateLimiter() gin.HandlerFunc {
	rate := limiter.Rate{
		Period: time.Hour,
		Limit:  100,
	}
	return mgin.NewMiddleware(limiter.New(memory.NewStore(), rate))
}

// LoginRateLimiter - жесткий лимит на login: защита от перебора паролей
func LoginRateLimiter() gin.HandlerFunc {
	rate := limiter.Rate{
		Period: 15 * time.Minute,
		Limit:  6,
	}
	return mgin.NewMiddleware(limiter.New(memory.NewStore(), rate))
}
