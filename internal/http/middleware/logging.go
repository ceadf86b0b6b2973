// README: Request logging with a per-request id echoed in X-Request-ID.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-ID"
	ctxRequestID    = "request_id"
)

// Logging assigns a request id (kept from the client when it sends one)
// and logs every request once it completes.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(RequestIDHeader, id)

		c.Next()

		entry := log.WithFields(log.Fields{
			"request_id":  id,
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		})
		if uid := CallerUID(c); uid != "" {
			entry = entry.WithFields(log.Fields{"caller_uid": uid, "caller_role": CallerRole(c)})
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("http: request failed")
		case status >= 400:
			entry.Warn("http: request rejected")
		default:
			entry.Info("http: request handled")
		}
	}
}

func RequestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}
