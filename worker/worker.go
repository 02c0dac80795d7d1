package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chatsched/chatsched/pkg/clock"
	"github.com/chatsched/chatsched/pkg/loglimiter"
	"github.com/chatsched/chatsched/pkg/metrics"
	"github.com/chatsched/chatsched/pkg/schedule"
	"github.com/chatsched/chatsched/service"
	"go.uber.org/zap"
)

var (
	ErrWorkerStarted = errors.New("already started")
	ErrWorkerStopped = errors.New("already stopped")
)

const (
	taskName = "dispatch.due"

	errorLogWindow = time.Minute
)

// Dispatcher delivers the messages that are due.
type Dispatcher interface {
	DispatchDue(ctx context.Context, now time.Time, limit int) (service.DispatchResult, error)
}

type Options struct {
	Interval   time.Duration
	BatchSize  int
	Dispatcher Dispatcher
	Clock      clock.Clock
	Metrics    *metrics.Metrics
	Log        *zap.SugaredLogger
}

// Worker periodically dispatches due scheduled messages.
type Worker struct {
	mux     sync.Mutex
	started bool
	cancel  context.CancelFunc
	log     *zap.SugaredLogger

	opts       Options
	scheduler  schedule.Scheduler
	logLimiter *loglimiter.Limiter

	statsMux sync.Mutex
	runs     int64
	total    service.DispatchResult
	lastRun  time.Time
	lastErr  string
}

func NewWorker(opts Options) *Worker {
	if opts.Log == nil {
		opts.Log = zap.S()
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewReal()
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Discard()
	}
	return &Worker{
		log:        opts.Log.Named("worker"),
		opts:       opts,
		scheduler:  schedule.NewScheduler(opts.Log),
		logLimiter: loglimiter.NewLimiter(errorLogWindow, opts.Clock),
	}
}

func (w *Worker) Name() string {
	return "worker"
}

// RunOnce dispatches one batch of due messages.
func (w *Worker) RunOnce(ctx context.Context) (service.DispatchResult, error) {
	now := w.opts.Clock.Now()
	start := time.Now()
	result, err := w.opts.Dispatcher.DispatchDue(ctx, now, w.opts.BatchSize)
	w.opts.Metrics.DispatchDurationHistogram.Observe(time.Since(start).Seconds())
	w.record(now, result, err)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			if ok, suppressed := w.logLimiter.Allow(taskName); ok {
				w.log.Errorf("failed to dispatch due messages: %v (%d similar errors suppressed)", err, suppressed)
			}
		}
		return result, err
	}
	if result.Total() > 0 {
		w.log.Infof("dispatched due messages: %s", result)
	}
	return result, nil
}

func (w *Worker) record(now time.Time, result service.DispatchResult, err error) {
	m := w.opts.Metrics
	m.DispatchRunCounter.Add(1)
	m.DispatchMessageCounter.With("outcome", "sent").Add(float64(result.Sent))
	m.DispatchMessageCounter.With("outcome", "failed").Add(float64(result.Failed))
	m.DispatchMessageCounter.With("outcome", "skipped").Add(float64(result.Skipped))
	if err != nil {
		m.DispatchErrorCounter.Add(1)
	}

	w.statsMux.Lock()
	defer w.statsMux.Unlock()
	w.runs++
	w.total.Sent += result.Sent
	w.total.Failed += result.Failed
	w.total.Skipped += result.Skipped
	w.lastRun = now
	w.lastErr = ""
	if err != nil {
		w.lastErr = err.Error()
	}
}

func (w *Worker) Stats() map[string]interface{} {
	w.statsMux.Lock()
	defer w.statsMux.Unlock()
	stats := map[string]interface{}{
		"worker.runs":       w.runs,
		"worker.sent":       int64(w.total.Sent),
		"worker.failed":     int64(w.total.Failed),
		"worker.skipped":    int64(w.total.Skipped),
		"worker.last_error": w.lastErr,
	}
	if !w.lastRun.IsZero() {
		stats["worker.last_run"] = w.lastRun.UTC().Format(time.RFC3339)
	}
	return stats
}

// IsRunning reports whether the dispatch task is scheduled.
func (w *Worker) IsRunning() bool {
	w.mux.Lock()
	defer w.mux.Unlock()
	return w.started
}

// Start starts worker
func (w *Worker) Start() error {
	w.mux.Lock()
	defer w.mux.Unlock()

	if w.started {
		return ErrWorkerStarted
	}

	// each run of the worker gets its own context, Stop cancels it
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.scheduler.AddTask(&schedule.Task{
		Name:     taskName,
		Interval: w.opts.Interval,
		Do: func() {
			_, _ = w.RunOnce(ctx)
		},
	})
	w.scheduler.Start()
	w.started = true
	w.log.Infof("started, dispatching every %s", w.opts.Interval)

	return nil
}

// Stop stops worker and waits for a running dispatch to return
func (w *Worker) Stop() error {
	w.mux.Lock()
	defer w.mux.Unlock()

	if !w.started {
		return ErrWorkerStopped
	}

	w.cancel()
	w.scheduler.Stop()
	w.scheduler.RemoveTask(taskName)

	w.started = false
	w.log.Info("stopped")

	return nil
}
