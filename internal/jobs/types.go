package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Job type constants
const (
	// High priority queue
	TypeEmailQuotaExceeded = "email:quota_exceeded"

	// Low priority queue
	TypeSubscriptionExpiry = "subscription:expiry"
)

// Queue names
const (
	QueueHigh = "high"
	QueueLow  = "low"
)

// QuotaNoticeRetention keeps a finished quota notice around long enough to
// reject a duplicate enqueue for the rest of the month.
const QuotaNoticeRetention = 32 * 24 * time.Hour

// QuotaNoticeJobPayload asks the worker to tell an account it hit its plan limit
type QuotaNoticeJobPayload struct {
	AccountID uuid.UUID `json:"account_id"`
	Reason    string    `json:"reason"`
	// Month is the calendar month of the denial, formatted 2006-01
	Month string `json:"month"`
}

// NoticeKey identifies the one notice an account gets per month
func (p QuotaNoticeJobPayload) NoticeKey() string {
	return fmt.Sprintf("quota-notice:%s:%s", p.AccountID, p.Month)
}

// NewQuotaNoticeTask creates a quota notice email task. The task id is derived
// from the account and month so repeated denials enqueue a single task.
func NewQuotaNoticeTask(payload QuotaNoticeJobPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmailQuotaExceeded, data,
		asynq.Queue(QueueHigh),
		asynq.MaxRetry(5),
		asynq.TaskID(payload.NoticeKey()),
		asynq.Retention(QuotaNoticeRetention),
	), nil
}

// NewSubscriptionExpiryTask creates the periodic plan expiry sweep
func NewSubscriptionExpiryTask() *asynq.Task {
	return asynq.NewTask(TypeSubscriptionExpiry, nil,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
}
