// Package scheduler runs a job on a cron schedule with a seconds field.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/guttosm/spotpulse/internal/logger"
)

// Job is one scheduled execution. ctx is cancelled when the scheduler stops.
type Job func(ctx context.Context, runID string) error

// Scheduler owns a cron instance with a single registered job.
type Scheduler struct {
	cron    *cron.Cron
	entry   cron.EntryID
	job     Job
	log     zerolog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	running bool
}

// New registers job under spec, a six-field cron expression
// ("sec min hour dom month dow") or a descriptor such as "@every 1h".
// Overlapping executions are skipped.
func New(spec string, job Job) (*Scheduler, error) {
	log := logger.With("scheduler")
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger{log: log}),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{log: log})),
		),
		job:    job,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}

	id, err := s.cron.AddFunc(spec, s.run)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("scheduler: invalid schedule %q: %w", spec, err)
	}
	s.entry = id
	return s, nil
}

// Start begins firing the job in the background. Calling it twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	s.log.Info().Time("next", s.Next()).Msg("scheduler started")
}

// Next returns the next activation time, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

// RunNow executes the job synchronously on the caller's goroutine.
func (s *Scheduler) RunNow() {
	s.run()
}

// Stop halts the schedule, cancels the context of an in-flight job and waits
// for it to return or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel()
	if !s.running {
		return nil
	}
	s.running = false

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info().Msg("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler: stop: %w", ctx.Err())
	}
}

// run wraps one execution with a run id, timing and panic recovery.
func (s *Scheduler) run() {
	if s.ctx.Err() != nil {
		return
	}

	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Logger()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Dur("elapsed", time.Since(start)).Msg("job panicked")
		}
	}()

	log.Info().Msg("job start")
	if err := s.job(s.ctx, runID); err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("job failed")
		return
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("job done")
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
