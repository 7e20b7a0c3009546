package logger

import (
	"context"
	"strconv"

	"go.uber.org/zap"
)

type contextKey string

const loggerKey contextKey = "logger"

func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext devolve o logger do contexto ou um no-op.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

func WithTenantID(ctx context.Context, l *zap.Logger, tenantID uint) (context.Context, *zap.Logger) {
	enriched := l.With(zap.String("tenant_id", strconv.FormatUint(uint64(tenantID), 10)))
	return WithContext(ctx, enriched), enriched
}
