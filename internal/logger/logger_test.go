package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("whatever"))
}

func TestNew(t *testing.T) {
	l := New(Config{Level: "debug", Format: "console", Output: "stderr"})
	require.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	core, logs := observer.New(zapcore.InfoLevel)
	ctx, _ := WithTenantID(context.Background(), zap.New(core), 42)
	FromContext(ctx).Info("hello")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "42", logs.All()[0].ContextMap()["tenant_id"])
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(GinMiddleware(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.InfoLevel, logs.All()[0].Level)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
	assert.Equal(t, "/ok", logs.All()[0].ContextMap()["path"])
}
