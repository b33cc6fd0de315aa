package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/moyoez/editor-bridge/tool"
)

// RateLimit rejects calls beyond perSecond (with burst) with 429.
// A non-positive perSecond disables the limit.
func RateLimit(perSecond, burst int) gin.HandlerFunc {
	if perSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			tool.DefaultLogger.Warnf("[RateLimit] rejected %s %s from %s", c.Request.Method, c.FullPath(), c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, tool.FastReturnError("too many requests"))
			return
		}
		c.Next()
	}
}
