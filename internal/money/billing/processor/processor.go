package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=processor.go -destination=mocks_test.go -package=processor

import (
	"callassist-server/internal/observability"
	"callassist-server/internal/store"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

// SubscriptionStore persists the plan row of an account
type SubscriptionStore interface {
	UpsertSubscription(ctx context.Context, params store.UpsertSubscriptionParams) (store.Subscription, error)
	ExpireLapsedSubscriptions(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

var (
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrInvalidSubscription = errors.New("invalid subscription payload")
	ErrFailedToUpdatePlan  = errors.New("failed to update plan")
)

type BillingProcessor struct {
	webhookSecret string
	store         SubscriptionStore
	logger        *observability.Logger
	now           func() time.Time
}

func New(webhookSecret string, store SubscriptionStore, logger *observability.Logger) BillingProcessor {
	return BillingProcessor{
		webhookSecret: webhookSecret,
		store:         store,
		logger:        logger,
		now:           time.Now,
	}
}

// ConstructEvent verifies the Stripe-Signature header and decodes the event
func (p *BillingProcessor) ConstructEvent(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return event, nil
}

// ExpireLapsedSubscriptions marks plans past their renewal date as expired.
// Expired accounts fall back to the free tier on their next call.
func (p *BillingProcessor) ExpireLapsedSubscriptions(ctx context.Context) (int, error) {
	accountIDs, err := p.store.ExpireLapsedSubscriptions(ctx, p.now().UTC())
	if err != nil {
		p.logger.Error(ctx, "failed to expire lapsed subscriptions", err)
		return 0, fmt.Errorf("failed to expire lapsed subscriptions: %w", err)
	}
	if len(accountIDs) > 0 {
		ctx = observability.WithFields(ctx, observability.Field{Key: "expired_count", Value: len(accountIDs)})
		p.logger.Info(ctx, "expired lapsed subscriptions")
	}
	return len(accountIDs), nil
}
