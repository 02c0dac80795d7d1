package metrics

import (
	"context"

	"github.com/go-kit/kit/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// LabelValues is a flat list of label name and value pairs.
type LabelValues []string

func (lvs LabelValues) With(labelValues ...string) LabelValues {
	if len(labelValues)%2 != 0 {
		labelValues = append(labelValues, "unknown")
	}
	return append(lvs[:len(lvs):len(lvs)], labelValues...)
}

func (lvs LabelValues) attributes() metric.MeasurementOption {
	attrs := make([]attribute.KeyValue, 0, len(lvs)/2)
	for i := 0; i+1 < len(lvs); i += 2 {
		attrs = append(attrs, attribute.String(lvs[i], lvs[i+1]))
	}
	return metric.WithAttributes(attrs...)
}

var (
	_ metrics.Counter   = &Counter{}
	_ metrics.Gauge     = &Gauge{}
	_ metrics.Histogram = &Histogram{}
)

type Counter struct {
	lvs LabelValues
	c   metric.Float64Counter
}

func NewCounter(meter metric.Meter, name string, desc string) *Counter {
	c, _ := meter.Float64Counter(name, metric.WithDescription(desc), metric.WithUnit("1"))
	return &Counter{c: c}
}

func (c *Counter) With(labelValues ...string) metrics.Counter {
	return &Counter{lvs: c.lvs.With(labelValues...), c: c.c}
}

func (c *Counter) Add(delta float64) {
	c.c.Add(context.Background(), delta, c.lvs.attributes())
}

type Gauge struct {
	lvs LabelValues
	g   metric.Float64Gauge
}

func NewGauge(meter metric.Meter, name string, desc string) *Gauge {
	g, _ := meter.Float64Gauge(name, metric.WithDescription(desc), metric.WithUnit("1"))
	return &Gauge{g: g}
}

func (g *Gauge) With(labelValues ...string) metrics.Gauge {
	return &Gauge{lvs: g.lvs.With(labelValues...), g: g.g}
}

func (g *Gauge) Set(value float64) {
	g.g.Record(context.Background(), value, g.lvs.attributes())
}

// Add records delta as the current value, an OpenTelemetry gauge keeps no running total.
func (g *Gauge) Add(delta float64) {
	g.Set(delta)
}

type Histogram struct {
	lvs LabelValues
	h   metric.Float64Histogram
}

func NewHistogram(meter metric.Meter, name string, desc string, unit string) *Histogram {
	h, _ := meter.Float64Histogram(
		name,
		metric.WithDescription(desc),
		metric.WithUnit(unit),
		metric.WithExplicitBucketBoundaries(.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10),
	)
	return &Histogram{h: h}
}

func (h *Histogram) With(labelValues ...string) metrics.Histogram {
	return &Histogram{lvs: h.lvs.With(labelValues...), h: h.h}
}

func (h *Histogram) Observe(value float64) {
	h.h.Record(context.Background(), value, h.lvs.attributes())
}
