package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStartSpanMintsAndReusesRequestID(t *testing.T) {
	tracer := New(nil)
	defer tracer.Close()

	outer, ctx := tracer.StartSpan(context.Background(), "GET /x")
	assert.True(t, strings.HasPrefix(outer.RequestID, "req_"))
	assert.Empty(t, outer.Parent)
	assert.Equal(t, outer.RequestID, RequestID(ctx))

	inner, _ := tracer.StartSpan(ctx, "command getConfig")
	assert.Equal(t, outer.RequestID, inner.RequestID)
	assert.Equal(t, "GET /x", inner.Parent)
}

func TestSubmitLogsOnClose(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	tracer := New(zap.New(core))

	span, _ := tracer.StartSpan(context.Background(), "ok")
	span.Finish(nil)
	tracer.Submit(span)

	failed, _ := tracer.StartSpan(context.Background(), "bad")
	failed.Finish(errors.New("boom"))
	tracer.Submit(failed)

	tracer.Close()
	tracer.Close()
	tracer.Submit(span)

	assert.Equal(t, 1, logs.FilterMessage("Span completed").Len())
	assert.Equal(t, 1, logs.FilterMessage("Span completed with error").Len())
}

func TestHTTPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer := New(nil)
	defer tracer.Close()

	var seen string
	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	router.POST("/invoke/:command", func(c *gin.Context) {
		seen = RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/invoke/getConfig", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(Header))

	req := httptest.NewRequest(http.MethodPost, "/invoke/getConfig", nil)
	req.Header.Set(Header, "req_from_view")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req_from_view", seen)
	assert.Equal(t, "req_from_view", w.Header().Get(Header))
}
