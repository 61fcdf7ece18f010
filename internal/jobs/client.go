package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"callassist-server/internal/observability"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Enqueuer is the part of asynq.Client the job client uses
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client handles enqueueing background jobs
type Client struct {
	client Enqueuer
	logger *observability.Logger
	now    func() time.Time
}

// NewClient creates a new job client
func NewClient(redisOpt asynq.RedisConnOpt, logger *observability.Logger) *Client {
	return NewClientWithEnqueuer(asynq.NewClient(redisOpt), logger)
}

// NewClientWithEnqueuer wraps an existing enqueuer
func NewClientWithEnqueuer(client Enqueuer, logger *observability.Logger) *Client {
	return &Client{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.client.Close()
}

// NotifyQuotaExceeded enqueues the monthly quota notice for an account. A
// notice already queued this month is not an error.
func (c *Client) NotifyQuotaExceeded(ctx context.Context, accountID uuid.UUID, reason string) error {
	payload := QuotaNoticeJobPayload{
		AccountID: accountID,
		Reason:    reason,
		Month:     c.now().UTC().Format("2006-01"),
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "task_id", Value: payload.NoticeKey()})

	task, err := NewQuotaNoticeTask(payload)
	if err != nil {
		c.logger.Error(ctx, "failed to create quota notice task", err)
		return fmt.Errorf("failed to create quota notice task: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			c.logger.Debug(ctx, "quota notice already enqueued this month")
			return nil
		}
		c.logger.Error(ctx, "failed to enqueue quota notice task", err)
		return fmt.Errorf("failed to enqueue quota notice task: %w", err)
	}

	c.logger.Info(ctx, fmt.Sprintf("enqueued quota notice task: %s (queue: %s)", info.ID, info.Queue))
	return nil
}
