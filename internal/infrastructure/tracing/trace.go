package tracing

import (
	"context"
	"sync"
	"time"

	"github.com/GriffinCanCode/deskshell/internal/shared/id"
	"go.uber.org/zap"
)

// Header carrying the request id in and out of the bridge
const Header = "X-Request-ID"

// Span is one timed operation: a bridge request or a command inside it
type Span struct {
	RequestID string
	Name      string
	Parent    string
	StartTime time.Time
	Duration  time.Duration
	Tags      map[string]string
	Err       error
	Status    int
}

// Tracer logs finished spans from a background collector
type Tracer struct {
	logger *zap.Logger
	spans  chan *Span

	wg        sync.WaitGroup
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// New creates a tracer and starts its collector
func New(logger *zap.Logger) *Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracer{
		logger: logger,
		spans:  make(chan *Span, 256),
	}

	t.wg.Add(1)
	go t.collect()
	return t
}

// StartSpan opens a span, reusing the request id already in ctx or minting one
func (t *Tracer) StartSpan(ctx context.Context, name string) (*Span, context.Context) {
	requestID := RequestID(ctx)
	parent := ""
	if requestID == "" {
		requestID = id.NewRequestID().String()
	} else {
		parent, _ = ctx.Value(spanNameKey).(string)
	}

	span := &Span{
		RequestID: requestID,
		Name:      name,
		Parent:    parent,
		StartTime: time.Now(),
		Tags:      make(map[string]string),
	}

	ctx = context.WithValue(ctx, requestIDKey, requestID)
	ctx = context.WithValue(ctx, spanNameKey, name)
	return span, ctx
}

// SetTag adds a tag to the span
func (s *Span) SetTag(key, value string) {
	s.Tags[key] = value
}

// Finish records the span's duration and outcome
func (s *Span) Finish(err error) {
	s.Duration = time.Since(s.StartTime)
	s.Err = err
}

// Submit hands a finished span to the collector. Spans are dropped when
// the buffer is full or the tracer is closed.
func (t *Tracer) Submit(span *Span) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}

	select {
	case t.spans <- span:
	default:
		t.logger.Warn("Span buffer full, dropping span", zap.String("request_id", span.RequestID))
	}
}

// Close drains the collector
func (t *Tracer) Close() {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		t.closed = true
		close(t.spans)
		t.mu.Unlock()
		t.wg.Wait()
	})
}

func (t *Tracer) collect() {
	defer t.wg.Done()
	for span := range t.spans {
		t.log(span)
	}
}

func (t *Tracer) log(span *Span) {
	fields := []zap.Field{
		zap.String("request_id", span.RequestID),
		zap.String("operation", span.Name),
		zap.Duration("duration", span.Duration),
	}
	if span.Parent != "" {
		fields = append(fields, zap.String("parent", span.Parent))
	}
	if span.Status != 0 {
		fields = append(fields, zap.Int("status", span.Status))
	}
	for k, v := range span.Tags {
		fields = append(fields, zap.String(k, v))
	}

	if span.Err != nil {
		fields = append(fields, zap.Error(span.Err))
		t.logger.Warn("Span completed with error", fields...)
		return
	}
	t.logger.Debug("Span completed", fields...)
}

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	spanNameKey  contextKey = "span_name"
)

// RequestID returns the request id carried by ctx
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithRequestID returns ctx carrying requestID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
