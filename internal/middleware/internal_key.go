package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawlog/pawlog-backend/internal/logger"
)

// InternalKeyMiddleware guards the /internal endpoints (daily generation,
// test seed) with a shared key instead of a user token: their caller is a
// deploy script or cron, not a caretaker.
type InternalKeyMiddleware struct {
	log *logger.Logger
	key string
}

func NewInternalKeyMiddleware(log *logger.Logger, key string) *InternalKeyMiddleware {
	middlewareLog := log.With("middleware", "InternalKeyMiddleware")
	return &InternalKeyMiddleware{log: middlewareLog, key: key}
}

func (im *InternalKeyMiddleware) RequireKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if im.key == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "internal endpoints disabled"})
			return
		}
		provided := c.GetHeader("X-Internal-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(im.key)) != 1 {
			im.log.Warn("Internal endpoint called with bad key", "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
