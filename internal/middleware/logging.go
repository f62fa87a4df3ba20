package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quality-agent/pkg/log"
)

const HeaderRequestID = "X-Request-ID"

// quietPaths are probed constantly; they run but are not logged.
var quietPaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/live":    true,
	"/metrics": true,
}

// RequestLogger tags the request context with a request id and logs one line per request.
func (m Middleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		ctx := log.WithFields(c.Request.Context(), "request_id", requestID)
		c.Request = c.Request.WithContext(ctx)

		path := c.Request.URL.Path
		if quietPaths[path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		if status >= 500 {
			m.l.Warnf(ctx, "[GIN] %3d %13v %15s %-7s %s", status, latency, c.ClientIP(), c.Request.Method, path)
			return
		}
		m.l.Infof(ctx, "[GIN] %3d %13v %15s %-7s %s", status, latency, c.ClientIP(), c.Request.Method, path)
	}
}
