package status

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/chatsched/chatsched/config/modules"
	"github.com/chatsched/chatsched/pkg/accesslog"
	"github.com/chatsched/chatsched/pkg/safe"
	"github.com/chatsched/chatsched/pkg/stats"
	"github.com/chatsched/chatsched/pkg/tracing"
	"github.com/chatsched/chatsched/status/health"
	"go.uber.org/zap"
)

type Status struct {
	api *API
	cfg *modules.StatusConfig
	s   *http.Server
	log *zap.SugaredLogger
}

type Options struct {
	NodeID     string
	AccessLog  accesslog.AccessLogger
	Indicators []*health.Indicator
	Stats      *stats.Collector
	Tracer     *tracing.Tracer
	Log        *zap.SugaredLogger
}

func NewStatus(cfg modules.StatusConfig, opts Options) *Status {
	log := opts.Log
	if log == nil {
		log = zap.S()
	}
	log = log.Named("status")
	if opts.Stats == nil {
		opts.Stats = stats.NewCollector()
	}

	api := &API{
		nodeID:         opts.NodeID,
		startAt:        time.Now(),
		debugEndpoints: cfg.DebugEndpoints,
		accessLogger:   opts.AccessLog,
		indicators:     opts.Indicators,
		stats:          opts.Stats,
		tracer:         opts.Tracer,
		log:            log,
	}
	s := &http.Server{
		Handler:      api.Handler(),
		Addr:         cfg.Listen,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	return &Status{
		api: api,
		cfg: &cfg,
		s:   s,
		log: log,
	}
}

func (s *Status) Name() string {
	return "status"
}

func (s *Status) Handler() http.Handler {
	return s.s.Handler
}

func (s *Status) Start() {
	safe.GoNamed("status", func() {
		if err := s.s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorf("failed to start status server: %v", err)
			os.Exit(1)
		}
	})

	s.log.Infof(`listening on address "%s"`, s.cfg.Listen)
	if s.cfg.DebugEndpoints {
		s.log.Infow("serving debug endpoints at /debug", "pprof", "/debug/pprof/")
	}
}

func (s *Status) Stop(ctx context.Context) error {
	return s.s.Shutdown(ctx)
}
