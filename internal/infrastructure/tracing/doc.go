// Package tracing tags bridge requests and the commands they run with a
// request id and logs their timings.
//
// The id arrives in (or is minted for) the X-Request-ID header, travels in
// the request context into the command registry, and is echoed back on the
// response so the embedded app can correlate its own logs.
//
// Example Usage:
//
//	tracer := tracing.New(logger)
//	defer tracer.Close()
//	router.Use(tracing.HTTPMiddleware(tracer))
//
//	span, ctx := tracer.StartSpan(ctx, "command getConfig")
//	defer func() { span.Finish(err); tracer.Submit(span) }()
package tracing
