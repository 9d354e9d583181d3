package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestGinMiddleware_PassesContextThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())

	var seen context.Context
	r.GET("/api/health", func(c *gin.Context) {
		seen = c.Request.Context()
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, trace.SpanFromContext(seen))
}

func TestStartSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "planner.generate")
	defer span.End()
	assert.Equal(t, span, trace.SpanFromContext(ctx))
}
