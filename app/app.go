package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chatsched/chatsched"
	"github.com/chatsched/chatsched/admin"
	"github.com/chatsched/chatsched/admin/api"
	"github.com/chatsched/chatsched/config"
	"github.com/chatsched/chatsched/config/modules"
	"github.com/chatsched/chatsched/db"
	"github.com/chatsched/chatsched/db/migrator"
	"github.com/chatsched/chatsched/eventbus"
	"github.com/chatsched/chatsched/pkg/accesslog"
	"github.com/chatsched/chatsched/pkg/log"
	"github.com/chatsched/chatsched/pkg/metrics"
	"github.com/chatsched/chatsched/pkg/stats"
	"github.com/chatsched/chatsched/pkg/tracing"
	"github.com/chatsched/chatsched/registry"
	"github.com/chatsched/chatsched/service"
	"github.com/chatsched/chatsched/status"
	"github.com/chatsched/chatsched/status/health"
	"github.com/chatsched/chatsched/worker"
	"github.com/chatsched/chatsched/worker/deliverer"
	uuid "github.com/satori/go.uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var (
	ErrApplicationStarted = errors.New("already started")
	ErrApplicationStopped = errors.New("already stopped")
)

type Application struct {
	nodeID string

	cfg *config.Config

	mux     sync.Mutex
	started bool

	stop chan struct{}

	log      *zap.SugaredLogger
	db       *db.DB
	bus      *eventbus.EventBus
	registry *registry.Registry
	srv      *service.Service
	tracer   *tracing.Tracer
	metrics  *metrics.Metrics

	admin  *admin.Admin
	status *status.Status
	worker *worker.Worker
}

func New(cfg *config.Config) (*Application, error) {
	app := &Application{
		nodeID: uuid.NewV4().String(),
		cfg:    cfg,
		stop:   make(chan struct{}, 1),
	}

	err := app.initialize()
	if err != nil {
		return nil, err
	}

	return app, nil
}

func (app *Application) initialize() error {
	cfg := app.cfg

	log, err := log.NewZapLogger(&cfg.Log)
	if err != nil {
		return err
	}
	app.log = log

	if cfg.Database.AutoMigrate {
		if err := migrator.New(&cfg.Database).Up(); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		app.log.Error(err)
	}))

	// tracing
	app.tracer, err = tracing.New(&cfg.Tracing)
	if err != nil {
		return err
	}

	app.metrics, err = metrics.New(cfg.Metrics, log)
	if err != nil {
		return err
	}

	// db
	db, err := db.Open(cfg.Database, log, app.tracer.For(modules.InstrumentationDAO))
	if err != nil {
		return err
	}
	app.db = db

	app.bus = eventbus.NewEventBus(log)
	app.registry = registry.NewRegistry(db.Channels, 1000, time.Minute)
	app.registerEventHandler()

	app.srv = service.NewService(service.Options{
		DB:        db,
		Workspace: cfg.Workspace,
		MinLead:   cfg.Worker.MinLeadDuration(),
		Registry:  app.registry,
		Deliverer: deliverer.New(cfg.Worker.Deliverer, log),
		EventBus:  app.bus,
		Log:       log,
	})

	// worker
	if cfg.Worker.Enabled {
		app.worker = worker.NewWorker(worker.Options{
			Interval:   cfg.Worker.IntervalDuration(),
			BatchSize:  int(cfg.Worker.BatchSize),
			Dispatcher: app.srv,
			Metrics:    app.metrics,
			Log:        log,
		})
	}

	// admin
	if cfg.Admin.IsEnabled() {
		opts := api.Options{
			Config:  cfg,
			Service: app.srv,
			Log:     log,
		}
		if cfg.AccessLog.IsEnabled() {
			accessLogger, err := app.newAccessLogger("admin")
			if err != nil {
				return err
			}
			opts.Middlewares = append(opts.Middlewares, accesslog.NewMiddleware(accessLogger))
		}
		if mw := app.tracer.Middleware("api.admin"); mw != nil {
			opts.Middlewares = append(opts.Middlewares, mw)
		}
		app.admin = admin.NewAdmin(cfg.Admin, api.NewAPI(opts).Handler(), log)
	}

	// status
	if cfg.Status.IsEnabled() {
		opts := status.Options{
			NodeID:     app.nodeID,
			Indicators: app.healthIndicators(),
			Stats:      app.statsCollector(),
			Tracer:     app.tracer,
			Log:        log,
		}
		if cfg.AccessLog.IsEnabled() {
			accessLogger, err := app.newAccessLogger("status")
			if err != nil {
				return err
			}
			opts.AccessLog = accessLogger
		}
		app.status = status.NewStatus(cfg.Status, opts)
	}

	return nil
}

func (app *Application) newAccessLogger(name string) (accesslog.AccessLogger, error) {
	return accesslog.NewAccessLogger(name, accesslog.Options{
		File:    app.cfg.AccessLog.File,
		Format:  string(app.cfg.AccessLog.Format),
		Colored: app.cfg.AccessLog.Colored,
	})
}

func (app *Application) healthIndicators() []*health.Indicator {
	indicators := []*health.Indicator{
		{Name: "database", Check: app.db.Ping},
	}
	if app.worker != nil {
		indicators = append(indicators, &health.Indicator{
			Name: "worker",
			Check: func() error {
				if !app.worker.IsRunning() {
					return errors.New("not running")
				}
				return nil
			},
		})
	}
	return indicators
}

func (app *Application) statsCollector() *stats.Collector {
	collector := stats.NewCollector(app.db)
	collector.Register(stats.ProviderFunc(func() map[string]interface{} {
		m, err := app.srv.Stats(context.TODO())
		if err != nil {
			app.log.Warnf("failed to collect message stats: %v", err)
			return nil
		}
		return m
	}))
	if app.worker != nil {
		collector.Register(app.worker)
	}
	return collector
}

func (app *Application) registerEventHandler() {
	app.bus.Subscribe(eventbus.EventChannelsChanged, func(data interface{}) {
		app.registry.Purge()
		if err := app.registry.Warmup(context.TODO()); err != nil {
			app.log.Errorf("failed to warm up channel registry: %v", err)
		}
	})
	for _, topic := range []string{
		eventbus.EventMessageScheduled,
		eventbus.EventMessageCancelled,
		eventbus.EventMessageSent,
	} {
		app.bus.Subscribe(topic, func(data interface{}) {
			e := data.(*eventbus.MessageEvent)
			app.metrics.MessageEventCounter.With("event", topic).Add(1)
			app.log.Debugf("message %s on %s is %s", e.ID, e.ChannelID, e.Status)
		})
	}
	app.bus.Subscribe(eventbus.EventMessageFailed, func(data interface{}) {
		e := data.(*eventbus.MessageEvent)
		app.metrics.MessageEventCounter.With("event", eventbus.EventMessageFailed).Add(1)
		app.log.Warnf("message %s on %s failed: %s", e.ID, e.ChannelID, e.Error)
	})
}

func (app *Application) DB() *db.DB {
	return app.db
}

func (app *Application) Service() *service.Service {
	return app.srv
}

func (app *Application) Worker() *worker.Worker {
	return app.worker
}

func (app *Application) NodeID() string {
	return app.nodeID
}

func (app *Application) Config() *config.Config {
	return app.cfg
}

// Start starts application
func (app *Application) Start() error {
	app.mux.Lock()
	defer app.mux.Unlock()

	if app.started {
		return ErrApplicationStarted
	}

	dbStatus, err := migrator.New(&app.cfg.Database).Status()
	if err != nil {
		return err
	}
	if dbStatus.Dirty {
		return fmt.Errorf("database is in a dirty state at version %d", dbStatus.Version)
	}
	if len(dbStatus.Pendings) > 0 {
		return errors.New("database is not up to date. Run 'chatsched db up' before starting")
	}

	app.log.Infof("starting chatsched %s (node %s)", chatsched.VERSION, app.nodeID)

	if _, err := app.srv.Bootstrap(context.TODO()); err != nil {
		return fmt.Errorf("failed to bootstrap workspace: %w", err)
	}

	if app.admin != nil {
		app.admin.Start()
	}
	if app.status != nil {
		app.status.Start()
	}
	if app.worker != nil {
		if err := app.worker.Start(); err != nil {
			return err
		}
	} else {
		app.log.Info("worker is disabled")
	}

	app.started = true

	return nil
}

func (app *Application) Wait() {
	<-app.stop
}

// Stop stops application
func (app *Application) Stop() error {
	app.mux.Lock()
	defer app.mux.Unlock()

	if !app.started {
		return ErrApplicationStopped
	}

	app.log.Info("exiting")

	defer func() {
		app.log.Info("exit")
		_ = app.log.Sync()
	}()

	if app.admin != nil {
		if err := app.admin.Stop(); err != nil {
			app.log.Errorf("failed to stop admin: %v", err)
		}
	}
	if app.status != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := app.status.Stop(ctx); err != nil {
			app.log.Errorf("failed to stop status: %v", err)
		}
		cancel()
	}
	if app.worker != nil {
		_ = app.worker.Stop()
	}
	_ = app.bus.Stop()
	_ = app.db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.metrics.Stop(ctx); err != nil {
		app.log.Errorf("failed to flush metrics: %v", err)
	}
	if err := app.tracer.Stop(ctx); err != nil {
		app.log.Errorf("failed to flush traces: %v", err)
	}

	app.started = false
	app.stop <- struct{}{}

	return nil
}
