package dashboard

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/gasmon/internal/chain"
)

const (
	// CorrelationIDHeader carries the request id in and out.
	CorrelationIDHeader = "X-Correlation-ID"
	correlationIDKey    = "correlationID"
)

type contextKey string

const correlationIDContextKey contextKey = "correlationID"

// CorrelationID ensures every request has an id, echoed in the response.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(correlationIDKey, id)
		c.Header(CorrelationIDHeader, id)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), correlationIDContextKey, id))
		c.Next()
	}
}

// GetCorrelationID retrieves the correlation id from the gin context.
func GetCorrelationID(c *gin.Context) string {
	if v, ok := c.Get(correlationIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// CorrelationIDFromContext retrieves the correlation id from a request context.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDContextKey).(string); ok {
		return id
	}
	return ""
}

// RequestLogger logs one line per request after it completes.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("correlation_id", GetCorrelationID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", chain.RedactAPIKey(c.Request.URL.RawQuery)),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case c.Writer.Status() >= 500:
			log.Error("request", fields...)
		case c.Writer.Status() >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// Recovery turns handler panics into a 500 and logs them.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, err any) {
		log.Error("panic recovered",
			zap.String("correlation_id", GetCorrelationID(c)),
			zap.Any("error", err),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Error: "internal_error", Message: "internal server error"})
	})
}
