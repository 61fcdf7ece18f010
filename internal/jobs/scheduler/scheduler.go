package scheduler

import (
	"callassist-server/internal/observability"
	"context"
	"fmt"
	"sync"
	"time"
)

// Job is a periodic task run in-process
type Job interface {
	Name() string
	Run(ctx context.Context) error
	Interval() time.Duration
}

// Scheduler runs periodic jobs inside the server process. It stands in for
// the asynq scheduler of cmd/worker when Redis is disabled.
type Scheduler struct {
	jobs   []Job
	logger *observability.Logger
	wg     sync.WaitGroup
}

func New(logger *observability.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Register adds a job. Jobs registered after Start are not run.
func (s *Scheduler) Register(job Job) {
	s.jobs = append(s.jobs, job)
}

// Start runs every job once and then on its interval until ctx is done
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info(ctx, fmt.Sprintf("Starting scheduler with %d jobs", len(s.jobs)))
	for _, job := range s.jobs {
		s.wg.Add(1)
		go func(job Job) {
			defer s.wg.Done()
			s.runJob(ctx, job)
		}(job)
	}
}

// Wait blocks until every job loop has returned
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "scheduled_job", Value: job.Name()})

	s.execute(ctx, job)

	ticker := time.NewTicker(job.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.execute(ctx, job)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, job Job) {
	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, job.Interval())
	defer cancel()

	if err := job.Run(runCtx); err != nil {
		s.logger.Error(ctx, fmt.Sprintf("Job %s failed after %v", job.Name(), time.Since(start)), err)
		return
	}
	s.logger.Debug(ctx, fmt.Sprintf("Job %s completed in %v", job.Name(), time.Since(start)))
}

// SubscriptionExpirer expires plans past their renewal date
type SubscriptionExpirer interface {
	ExpireLapsedSubscriptions(ctx context.Context) (int, error)
}

// SubscriptionExpiryJob expires lapsed plans on an interval
type SubscriptionExpiryJob struct {
	billing  SubscriptionExpirer
	interval time.Duration
}

func NewSubscriptionExpiryJob(billing SubscriptionExpirer, interval time.Duration) *SubscriptionExpiryJob {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SubscriptionExpiryJob{billing: billing, interval: interval}
}

func (j *SubscriptionExpiryJob) Name() string {
	return "subscription_expiry"
}

func (j *SubscriptionExpiryJob) Interval() time.Duration {
	return j.interval
}

func (j *SubscriptionExpiryJob) Run(ctx context.Context) error {
	_, err := j.billing.ExpireLapsedSubscriptions(ctx)
	return err
}
