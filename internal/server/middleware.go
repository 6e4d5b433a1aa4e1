package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenthands/neoscope/internal/logger"
	"github.com/agenthands/neoscope/internal/metrics"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = logger.FieldRequestID
)

// RequestID tags every request with an ID, reusing the caller's header when
// present, and logs one line per request.
func RequestID(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()

		log.Infow("request",
			requestIDKey, id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			logger.FieldDurationMS, time.Since(start).Milliseconds(),
		)
	}
}
