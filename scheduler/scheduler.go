// Package scheduler runs background jobs on cron schedules or fixed
// intervals, with overlap control and per-job timeouts.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc is a schedulable task.
type JobFunc func(ctx context.Context) error

// CronJobID identifies a cron job.
type CronJobID = cron.EntryID

// TickerJobID identifies a fixed-interval job.
type TickerJobID int

// OverlapPolicy controls what happens when a run is due while the previous
// one is still going.
type OverlapPolicy int

const (
	// AllowOverlap runs jobs concurrently.
	AllowOverlap OverlapPolicy = iota
	// SkipIfRunning drops the due run.
	SkipIfRunning
	// DelayIfRunning waits for the previous run to finish.
	DelayIfRunning
)

// JobOptions tune a single job.
type JobOptions struct {
	Name          string
	Timeout       time.Duration
	OverlapPolicy OverlapPolicy
}

type jobWrapper struct {
	job     JobFunc
	options JobOptions
	running sync.Mutex
}

type tickerJob struct {
	ticker *time.Ticker
	cancel context.CancelFunc
}

// Config configures a Scheduler.
type Config struct {
	Logger *slog.Logger
}

// Scheduler owns cron and ticker jobs sharing one lifecycle.
type Scheduler struct {
	cron   *cron.Cron
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	tickers   map[TickerJobID]*tickerJob
	nextID    TickerJobID
	startOnce sync.Once
	stopOnce  sync.Once
}

// New creates a Scheduler. Jobs run only after Start.
func New(cfg Config) *Scheduler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cronLogger{log.With(slog.String("component", "cron"))})),
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		tickers: make(map[TickerJobID]*tickerJob),
		nextID:  1,
	}
}

// AddCronJob schedules job with default options. Spec uses robfig/cron
// syntax, e.g. "30 * * * *" or "@every 5m".
func (s *Scheduler) AddCronJob(spec string, job JobFunc) (CronJobID, error) {
	return s.AddCronJobWithOptions(spec, job, JobOptions{})
}

// AddCronJobWithOptions schedules job with the given options.
func (s *Scheduler) AddCronJobWithOptions(spec string, job JobFunc, opts JobOptions) (CronJobID, error) {
	w := &jobWrapper{job: job, options: opts}

	var chain cron.Chain
	switch opts.OverlapPolicy {
	case SkipIfRunning:
		chain = cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger))
	case DelayIfRunning:
		chain = cron.NewChain(cron.DelayIfStillRunning(cron.DefaultLogger))
	default:
		chain = cron.NewChain()
	}

	id, err := s.cron.AddJob(spec, chain.Then(cron.FuncJob(func() { s.run(w) })))
	if err != nil {
		return 0, err
	}
	s.log.Info("cron job added", slog.String("spec", spec), slog.String("name", opts.Name))
	return id, nil
}

// AddTickerJob schedules job at a fixed interval.
func (s *Scheduler) AddTickerJob(interval time.Duration, job JobFunc) TickerJobID {
	return s.AddTickerJobWithOptions(interval, job, JobOptions{})
}

// AddTickerJobWithOptions schedules an interval job with the given options.
func (s *Scheduler) AddTickerJobWithOptions(interval time.Duration, job JobFunc, opts JobOptions) TickerJobID {
	w := &jobWrapper{job: job, options: opts}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	ticker := time.NewTicker(interval)
	ctx, cancel := context.WithCancel(s.ctx)
	s.tickers[id] = &tickerJob{ticker: ticker, cancel: cancel}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.run(w)
			case <-ctx.Done():
				return
			}
		}
	}()
	return id
}

// RemoveTickerJob stops and forgets an interval job.
func (s *Scheduler) RemoveTickerJob(id TickerJobID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tickers[id]; ok {
		t.cancel()
		delete(s.tickers, id)
	}
}

// Start begins executing jobs. Safe to call once.
func (s *Scheduler) Start() {
	s.startOnce.Do(s.cron.Start)
}

// Stop cancels running jobs and waits for them to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.cron.Stop().Done()
		s.wg.Wait()
	})
}

func (s *Scheduler) run(w *jobWrapper) {
	switch w.options.OverlapPolicy {
	case SkipIfRunning:
		if !w.running.TryLock() {
			s.log.Debug("job skipped, still running", slog.String("name", w.options.Name))
			return
		}
		defer w.running.Unlock()
	case DelayIfRunning:
		w.running.Lock()
		defer w.running.Unlock()
	}

	ctx := s.ctx
	if w.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.options.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := w.job(ctx); err != nil {
		s.log.Error("job failed",
			slog.String("name", w.options.Name),
			slog.Duration("took", time.Since(start)),
			slog.Any("err", err))
		return
	}
	s.log.Debug("job done",
		slog.String("name", w.options.Name),
		slog.Duration("took", time.Since(start)))
}

// cronLogger adapts slog to the cron logging interface.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, kv ...interface{}) {
	l.log.Debug(msg, kvAttrs(kv)...)
}

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.log.Error(msg, append([]any{slog.Any("err", err)}, kvAttrs(kv)...)...)
}

func kvAttrs(kv []interface{}) []any {
	out := make([]any, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		out = append(out, slog.Any(key, kv[i+1]))
	}
	return out
}
