package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime/debug"
	"sort"
	"strings"
	"sync"

	"github.com/GriffinCanCode/deskshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler is one command implementation
type Handler interface {
	Definition() types.Command
	Execute(ctx context.Context, args []byte) (interface{}, error)
}

// Registry manages command lookup and invocation
type Registry struct {
	commands sync.Map
	validate *validator.Validate
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
}

// NewRegistry creates an empty registry
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	// Report argument names as the caller spells them
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Registry{
		validate: validate,
		logger:   logger,
	}
}

// WithMetrics adds metrics tracking to the registry
func (r *Registry) WithMetrics(metrics *monitoring.Metrics) *Registry {
	r.metrics = metrics
	return r
}

// WithTracer opens a span per invocation
func (r *Registry) WithTracer(tracer *tracing.Tracer) *Registry {
	r.tracer = tracer
	return r
}

// Register adds a command. Names are unique.
func (r *Registry) Register(h Handler) error {
	def := h.Definition()
	if def.Name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if _, loaded := r.commands.LoadOrStore(def.Name, h); loaded {
		return fmt.Errorf("command already registered: %s", def.Name)
	}
	return nil
}

// Get retrieves a command by name
func (r *Registry) Get(name string) (Handler, bool) {
	val, ok := r.commands.Load(name)
	if !ok {
		return nil, false
	}
	return val.(Handler), true
}

// List returns every command definition sorted by name
func (r *Registry) List() []types.Command {
	var defs []types.Command
	r.commands.Range(func(_, value interface{}) bool {
		defs = append(defs, value.(Handler).Definition())
		return true
	})
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Invoke runs a command with raw JSON arguments. It never returns nil and
// never panics.
func (r *Registry) Invoke(ctx context.Context, name string, args []byte) (result *types.Result) {
	h, ok := r.Get(name)
	if !ok {
		r.logger.Warn("Unknown command", zap.String("command", name))
		monitoring.NewTimer(r.metrics, "unknown").Stop(CodeUnknownCommand)
		return types.Failure(CodeUnknownCommand, fmt.Errorf("%w: %s", ErrUnknownCommand, name))
	}

	timer := monitoring.NewTimer(r.metrics, name)
	var span *tracing.Span
	if r.tracer != nil {
		span, ctx = r.tracer.StartSpan(ctx, "command "+name)
	}
	logger := r.logger.With(zap.String("command", name))
	if rid := tracing.RequestID(ctx); rid != "" {
		logger = logger.With(zap.String("request_id", rid))
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Error("Command panicked",
				zap.Any("panic", p),
				zap.ByteString("stack", debug.Stack()))
			result = types.Failure(CodeInternal, fmt.Errorf("command %s failed", name))
		}
		code := result.Code
		if result.Success {
			code = CodeOK
		}
		timer.Stop(code)
		if span != nil {
			span.SetTag("code", code)
			var spanErr error
			if result.Error != nil {
				spanErr = errors.New(*result.Error)
			}
			span.Finish(spanErr)
			r.tracer.Submit(span)
		}
	}()

	data, err := h.Execute(ctx, args)
	if err != nil {
		code := Code(err)
		logger.Warn("Command failed", zap.String("code", code), zap.Error(err))
		return types.Failure(code, err)
	}

	logger.Debug("Command succeeded")
	return types.Success(data)
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	names := make([]string, 0)
	for _, def := range r.List() {
		names = append(names, def.Name)
	}
	return map[string]interface{}{
		"total_commands": len(names),
		"commands":       names,
	}
}

// decodeArgs fills args from raw JSON and validates it. Empty input and
// JSON null leave args at its zero value before validation.
func (r *Registry) decodeArgs(raw []byte, args interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := sonic.Unmarshal(trimmed, args); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}
	if err := r.validate.Struct(args); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed on %s", ErrInvalidArgument, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return nil
}

// command adapts a typed function to Handler
type command[A any] struct {
	def      types.Command
	registry *Registry
	run      func(ctx context.Context, args A) (interface{}, error)
}

func (c *command[A]) Definition() types.Command { return c.def }

func (c *command[A]) Execute(ctx context.Context, raw []byte) (interface{}, error) {
	var args A
	if err := c.registry.decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	return c.run(ctx, args)
}

// Command builds a Handler whose arguments decode into A
func Command[A any](r *Registry, def types.Command, run func(ctx context.Context, args A) (interface{}, error)) Handler {
	return &command[A]{def: def, registry: r, run: run}
}
