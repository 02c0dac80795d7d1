// Package metrics exports dispatch, message and runtime metrics through
// OpenTelemetry. Instruments are go-kit metrics and discard their values
// while no export is configured.
package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/chatsched/chatsched/config/modules"
	"github.com/chatsched/chatsched/pkg/schedule"
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const runtimeTask = "metrics.runtime"

type Metrics struct {
	Enabled  bool
	Interval time.Duration

	provider  *sdkmetric.MeterProvider
	scheduler schedule.Scheduler

	// runtime metrics

	RuntimeGoroutine   metrics.Gauge
	RuntimeAlloc       metrics.Gauge
	RuntimeSys         metrics.Gauge
	RuntimeHeapObjects metrics.Gauge
	RuntimeGC          metrics.Gauge

	// worker metrics

	DispatchRunCounter        metrics.Counter
	DispatchErrorCounter      metrics.Counter
	DispatchMessageCounter    metrics.Counter
	DispatchDurationHistogram metrics.Histogram

	// message metrics

	MessageEventCounter metrics.Counter
}

// Discard returns metrics that record nothing.
func Discard() *Metrics {
	return &Metrics{
		RuntimeGoroutine:          discard.NewGauge(),
		RuntimeAlloc:              discard.NewGauge(),
		RuntimeSys:                discard.NewGauge(),
		RuntimeHeapObjects:        discard.NewGauge(),
		RuntimeGC:                 discard.NewGauge(),
		DispatchRunCounter:        discard.NewCounter(),
		DispatchErrorCounter:      discard.NewCounter(),
		DispatchMessageCounter:    discard.NewCounter(),
		DispatchDurationHistogram: discard.NewHistogram(),
		MessageEventCounter:       discard.NewCounter(),
	}
}

func New(cfg modules.MetricsConfig, log *zap.SugaredLogger) (*Metrics, error) {
	if !cfg.Enabled() {
		return Discard(), nil
	}

	exporter, err := newExporter(cfg.Opentelemetry)
	if err != nil {
		return nil, err
	}
	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.PushIntervalDuration()))
	m, err := NewWithReader(cfg.Attributes, reader, cfg.PushIntervalDuration(), log)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(m.provider)
	log.Infof("enabled metric exports: %v", cfg.Exports)
	return m, nil
}

// NewWithReader collects metrics into reader and samples runtime stats every interval.
func NewWithReader(attributes map[string]string, reader sdkmetric.Reader, interval time.Duration, log *zap.SugaredLogger) (*Metrics, error) {
	provider, err := newMeterProvider(attributes, reader)
	if err != nil {
		return nil, err
	}

	m := &Metrics{
		Enabled:   true,
		Interval:  interval,
		provider:  provider,
		scheduler: schedule.NewScheduler(log),
	}
	m.register(provider)
	m.scheduler.AddTask(&schedule.Task{
		Name:     runtimeTask,
		Interval: interval,
		Do:       m.collectRuntimeStats,
	})
	m.scheduler.Start()
	return m, nil
}

func (m *Metrics) collectRuntimeStats() {
	m.RuntimeGoroutine.Set(float64(runtime.NumGoroutine()))

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	m.RuntimeAlloc.Set(float64(stats.Alloc))
	m.RuntimeSys.Set(float64(stats.Sys))
	m.RuntimeHeapObjects.Set(float64(stats.HeapObjects))
	m.RuntimeGC.Set(float64(stats.NumGC))
}

// Stop flushes the last readings to the exporter.
func (m *Metrics) Stop(ctx context.Context) error {
	if !m.Enabled {
		return nil
	}
	m.scheduler.Stop()
	return m.provider.Shutdown(ctx)
}
