package tracing

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// HTTPMiddleware opens a span per bridge request and echoes its request id
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if incoming := c.GetHeader(Header); incoming != "" && len(incoming) <= 128 {
			ctx = WithRequestID(ctx, incoming)
		}

		name := c.FullPath()
		if name == "" {
			name = "unmatched"
		}
		span, ctx := tracer.StartSpan(ctx, c.Request.Method+" "+name)
		if cmd := c.Param("command"); cmd != "" {
			span.SetTag("command", cmd)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Header(Header, span.RequestID)

		c.Next()

		span.Status = c.Writer.Status()
		var err error
		if len(c.Errors) > 0 {
			err = errors.New(c.Errors.String())
		}
		span.Finish(err)
		tracer.Submit(span)
	}
}
