package metrics

import (
	"context"
	"fmt"

	"github.com/chatsched/chatsched"
	"github.com/chatsched/chatsched/config/modules"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	meterName = "github.com/chatsched/chatsched"
	prefix    = "chatsched."
)

func newExporter(cfg modules.OpentelemetryMetrics) (sdkmetric.Exporter, error) {
	switch cfg.Protocol {
	case modules.OtlpProtocolHTTP:
		return otlpmetrichttp.New(context.Background(), otlpmetrichttp.WithEndpointURL(cfg.Endpoint))
	case modules.OtlpProtocolGRPC:
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	}
	return nil, fmt.Errorf("unsupported protocol: %s", cfg.Protocol)
}

func newMeterProvider(attributes map[string]string, reader sdkmetric.Reader) (*sdkmetric.MeterProvider, error) {
	attrs := make([]attribute.KeyValue, 0, len(attributes))
	for name, value := range attributes {
		attrs = append(attrs, attribute.String(name, value))
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(semconv.ServiceNameKey.String("chatsched")),
		resource.WithAttributes(semconv.ServiceVersionKey.String(chatsched.VERSION)),
		resource.WithFromEnv(),
		resource.WithAttributes(attrs...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build resource: %w", err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	), nil
}

func (m *Metrics) register(provider *sdkmetric.MeterProvider) {
	meter := provider.Meter(meterName)

	// runtime metrics
	m.RuntimeGoroutine = NewGauge(meter, prefix+"runtime.num_goroutine", "")
	m.RuntimeAlloc = NewGauge(meter, prefix+"runtime.alloc_bytes", "")
	m.RuntimeSys = NewGauge(meter, prefix+"runtime.sys_bytes", "")
	m.RuntimeHeapObjects = NewGauge(meter, prefix+"runtime.heap_objects", "")
	m.RuntimeGC = NewGauge(meter, prefix+"runtime.num_gc", "")

	// worker metrics
	m.DispatchRunCounter = NewCounter(meter, prefix+"dispatch.runs", "dispatch runs of the worker")
	m.DispatchErrorCounter = NewCounter(meter, prefix+"dispatch.errors", "dispatch runs that returned an error")
	m.DispatchMessageCounter = NewCounter(meter, prefix+"dispatch.messages", "due messages by outcome")
	m.DispatchDurationHistogram = NewHistogram(meter, prefix+"dispatch.duration", "", "s")

	// message metrics
	m.MessageEventCounter = NewCounter(meter, prefix+"message.events", "message lifecycle events by type")
}
