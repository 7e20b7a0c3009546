package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GinMiddleware registra cada requisição e deixa o logger no contexto da request.
func GinMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := WithContext(c.Request.Context(), base)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if tenantID, ok := c.Get("tenantID"); ok {
			fields = append(fields, zap.Any("tenant_id", tenantID))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			base.Error("request", fields...)
		case status >= 400:
			base.Warn("request", fields...)
		default:
			base.Info("request", fields...)
		}
	}
}
