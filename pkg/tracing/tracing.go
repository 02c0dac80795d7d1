// Package tracing records OpenTelemetry spans for the admin and status
// servers and the database layer. A nil *Tracer is valid and records nothing.
package tracing

import (
	"context"
	"net/http"
	"slices"

	"github.com/chatsched/chatsched/config/modules"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/chatsched/chatsched"

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

type Tracer struct {
	trace.Tracer

	provider         trace.TracerProvider
	instrumentations []string
}

// New returns nil when no instrumentation is configured.
func New(cfg *modules.TracingConfig) (*Tracer, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	provider, err := SetupOTEL(cfg)
	if err != nil {
		return nil, err
	}

	return NewTracer(provider, cfg.Instrumentations), nil
}

func NewTracer(provider trace.TracerProvider, instrumentations []string) *Tracer {
	return &Tracer{
		Tracer:           provider.Tracer(instrumentationName),
		provider:         provider,
		instrumentations: instrumentations,
	}
}

// For returns t if the named instrumentation is enabled, nil otherwise.
func (t *Tracer) For(name string) *Tracer {
	if t == nil {
		return nil
	}
	if slices.Contains(t.instrumentations, name) || slices.Contains(t.instrumentations, modules.InstrumentationAll) {
		return t
	}
	return nil
}

func (t *Tracer) Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if t == nil {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return t.Tracer.Start(ctx, spanName, opts...)
}

// Middleware traces the requests of the named server, or returns nil when
// request instrumentation is off.
func (t *Tracer) Middleware(server string) func(http.Handler) http.Handler {
	t = t.For(modules.InstrumentationRequest)
	if t == nil {
		return nil
	}
	return otelhttp.NewMiddleware(server, otelhttp.WithTracerProvider(t.provider))
}

// Stop flushes pending spans.
func (t *Tracer) Stop(ctx context.Context) error {
	if t == nil {
		return nil
	}
	if s, ok := t.provider.(shutdowner); ok {
		return s.Shutdown(ctx)
	}
	return nil
}
