package middleware

import (
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request. Server errors are logged at
// error level with their cause so they reach Sentry.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency", time.Since(start).String(),
			"ip", c.ClientIP(),
		}
		if user := CurrentUser(c); user != nil {
			args = append(args, "user_id", user.ID)
		}
		if err := c.Errors.Last(); err != nil {
			args = append(args, "error", err.Err)
		}

		switch {
		case status >= 500:
			log.Error("request failed", args...)
		case status >= 400 && apperr.KindOf(lastErr(c)) != apperr.KindNotFound:
			log.Info("request rejected", args...)
		default:
			log.Debug("request", args...)
		}
	}
}

func lastErr(c *gin.Context) error {
	if e := c.Errors.Last(); e != nil {
		return e.Err
	}
	return nil
}
