package cronjob

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/oakline-signs/site-backend/internal/contact/service"
)

// Job is one pass of background work.
type Job interface {
	RunOnce(ctx context.Context) (service.ResendResult, error)
}

// parser accepts both 5-field schedules and the 6-field form with seconds.
var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type Scheduler struct {
	schedule string
	job      Job
	timeout  time.Duration

	mu   sync.Mutex
	cron *cron.Cron
}

func NewScheduler(schedule string, job Job) *Scheduler {
	return &Scheduler{schedule: schedule, job: job, timeout: 2 * time.Minute}
}

// Start registers the job and starts ticking. Overlapping runs are skipped.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := parser.Parse(s.schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.schedule, err)
	}

	logger := zapCronLogger{log: zap.S().Named("cron")}
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	if _, err := c.AddFunc(s.schedule, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("failed to create cron job: %w", err)
	}

	s.mu.Lock()
	s.cron = c
	s.mu.Unlock()

	zap.S().Infow("cron scheduler started", "schedule", s.schedule)
	c.Start()
	return nil
}

// Stop waits for a running pass to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
}

func (s *Scheduler) run(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	res, err := s.job.RunOnce(runCtx)
	if err != nil {
		zap.S().Errorw("resend pass failed", "error", err, "sent", res.Sent, "failed", res.Failed)
		return
	}
	zap.S().Infow("resend pass completed",
		"sent", res.Sent,
		"failed", res.Failed,
		"skipped", res.Skipped,
		"took", time.Since(start),
	)
}

// zapCronLogger adapts zap to cron.Logger.
type zapCronLogger struct {
	log *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
