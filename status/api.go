package status

import (
	"fmt"
	"net/http"
	"net/http/pprof"
	"runtime"
	"time"

	"github.com/chatsched/chatsched"
	"github.com/chatsched/chatsched/pkg/accesslog"
	"github.com/chatsched/chatsched/pkg/http/middlewares"
	"github.com/chatsched/chatsched/pkg/http/response"
	"github.com/chatsched/chatsched/pkg/stats"
	"github.com/chatsched/chatsched/pkg/tracing"
	"github.com/chatsched/chatsched/status/health"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type API struct {
	nodeID         string
	startAt        time.Time
	debugEndpoints bool
	accessLogger   accesslog.AccessLogger
	indicators     []*health.Indicator
	stats          *stats.Collector
	tracer         *tracing.Tracer
	log            *zap.SugaredLogger
}

func (api *API) Index(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	s := api.stats.Collect()

	resp := StatusResponse{
		NodeID:  api.nodeID,
		Version: chatsched.VERSION,
		UpTime:  time.Since(api.startAt).Round(time.Second).String(),
		Runtime: RuntimeStats{
			Go:         runtime.Version(),
			Goroutines: runtime.NumGoroutine(),
		},
		Memory: MemoryStats{
			Alloc:       fmt.Sprintf("%.2f MiB", BytesToMiB(mem.Alloc)),
			Sys:         fmt.Sprintf("%.2f MiB", BytesToMiB(mem.Sys)),
			HeapAlloc:   fmt.Sprintf("%.2f MiB", BytesToMiB(mem.HeapAlloc)),
			HeapObjects: int64(mem.HeapObjects),
			GC:          int64(mem.NumGC),
		},
		Database: DatabaseStats{
			TotalConnections:  s.Int("database.total_connections"),
			ActiveConnections: s.Int("database.active_connections"),
		},
		Messages: MessageStats{
			Pending:   s.Int64("messages.pending"),
			Sent:      s.Int64("messages.sent"),
			Failed:    s.Int64("messages.failed"),
			Cancelled: s.Int64("messages.cancelled"),
		},
		Worker: WorkerStats{
			Runs:      s.Int64("worker.runs"),
			Sent:      s.Int64("worker.sent"),
			Failed:    s.Int64("worker.failed"),
			Skipped:   s.Int64("worker.skipped"),
			LastRun:   s.String("worker.last_run"),
			LastError: s.String("worker.last_error"),
		},
	}

	response.JSON(w, http.StatusOK, resp)
}

func (api *API) Health(w http.ResponseWriter, r *http.Request) {
	status, components := health.Run(api.indicators)
	resp := HealthResponse{
		Status:     status,
		Components: components,
	}

	if status != health.StatusUp {
		response.JSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

func (api *API) Handler() http.Handler {
	r := mux.NewRouter()

	if mw := api.tracer.Middleware("api.status"); mw != nil {
		r.Use(mw)
	}
	if api.accessLogger != nil {
		r.Use(accesslog.NewMiddleware(api.accessLogger))
	}
	r.Use(middlewares.NewRecovery(api.log, nil).Handle)

	r.HandleFunc("/", api.Index).Methods("GET")
	r.HandleFunc("/health", api.Health).Methods("GET")

	if api.debugEndpoints {
		r.HandleFunc("/debug/pprof/profile", pprof.Profile).Methods("GET")
		r.HandleFunc("/debug/pprof/symbol", pprof.Symbol).Methods("GET")
		r.HandleFunc("/debug/pprof/trace", pprof.Trace).Methods("GET")
		r.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline).Methods("GET")
		r.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index).Methods("GET")
	}

	return r
}
