package middleware

import (
	"errors"
	"log/slog"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// RequestID tags every request with an id, reusing the caller's when given.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// SilentLogger logs requests but ignores "broken pipe" errors caused by
// client disconnects (common while streaming preview downloads).
func SilentLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		for _, e := range c.Errors {
			if errors.Is(e.Err, syscall.EPIPE) || errors.Is(e.Err, syscall.ECONNRESET) {
				return
			}
		}

		if query != "" {
			path = path + "?" + query
		}
		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		logger.Log(c.Request.Context(), level, "request",
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"latency", time.Since(start),
			"ip", c.ClientIP(),
			"request_id", c.GetString("request_id"),
		)
	}
}
