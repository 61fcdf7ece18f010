package workers

import (
	"context"

	"callassist-server/internal/observability"

	"github.com/hibiken/asynq"
)

// SubscriptionExpirer expires plans past their renewal date
type SubscriptionExpirer interface {
	ExpireLapsedSubscriptions(ctx context.Context) (int, error)
}

// SubscriptionExpiryWorker runs the periodic plan expiry sweep
type SubscriptionExpiryWorker struct {
	billing SubscriptionExpirer
	logger  *observability.Logger
}

func NewSubscriptionExpiryWorker(billing SubscriptionExpirer, logger *observability.Logger) *SubscriptionExpiryWorker {
	return &SubscriptionExpiryWorker{billing: billing, logger: logger}
}

// ProcessSubscriptionExpiryTask processes a subscription expiry task (for Asynq)
func (w *SubscriptionExpiryWorker) ProcessSubscriptionExpiryTask(ctx context.Context, _ *asynq.Task) error {
	_, err := w.billing.ExpireLapsedSubscriptions(ctx)
	return err
}
