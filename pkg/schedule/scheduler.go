package schedule

import (
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Task struct {
	id cron.EntryID

	Name         string
	InitialDelay time.Duration
	Interval     time.Duration
	Do           func()
}

type Scheduler interface {
	AddTask(task *Task)
	GetTask(name string) *Task
	RemoveTask(name string)
	Start()
	Stop()
}

var (
	ErrTaskAdded = errors.New("task already added")
)

var _ Scheduler = &DefaultScheduler{}

// IntervalSchedule fires after InitialDelay and every Interval thereafter.
type IntervalSchedule struct {
	once         sync.Once
	InitialDelay time.Duration
	Interval     time.Duration
}

func (s *IntervalSchedule) Next(t time.Time) time.Time {
	interval := s.Interval
	s.once.Do(func() {
		interval = s.InitialDelay
	})
	return t.Add(interval)
}

type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

type DefaultScheduler struct {
	cron  *cron.Cron
	tasks map[string]*Task
	mux   sync.RWMutex
}

// NewScheduler returns a scheduler that recovers panicking tasks and
// skips a run while the previous run of the same task is in progress.
func NewScheduler(log *zap.SugaredLogger) Scheduler {
	if log == nil {
		log = zap.S()
	}
	logger := cronLogger{log: log.Named("scheduler")}
	return &DefaultScheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		tasks: make(map[string]*Task),
	}
}

func (s *DefaultScheduler) AddTask(task *Task) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if _, exists := s.tasks[task.Name]; exists {
		panic(ErrTaskAdded)
	}

	schedule := &IntervalSchedule{
		InitialDelay: task.InitialDelay,
		Interval:     task.Interval,
	}
	entryID := s.cron.Schedule(schedule, cron.FuncJob(task.Do))

	task.id = entryID
	s.tasks[task.Name] = task
}

func (s *DefaultScheduler) GetTask(name string) *Task {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.tasks[name]
}

func (s *DefaultScheduler) RemoveTask(name string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if task, ok := s.tasks[name]; ok {
		s.cron.Remove(task.id)
		delete(s.tasks, name)
	}
}

func (s *DefaultScheduler) Start() {
	s.cron.Start()
}

func (s *DefaultScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
