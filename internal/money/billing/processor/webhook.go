package processor

import (
	"callassist-server/internal/observability"
	"callassist-server/internal/store"
	"callassist-server/internal/tiers"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
)

// Metadata keys set on Stripe subscriptions at checkout
const (
	MetadataAccountID = "account_id"
	MetadataPlanTier  = "plan_tier"
)

// HandleWebhook applies subscription lifecycle events to the account's plan.
// Other event types are acknowledged and ignored.
func (p *BillingProcessor) HandleWebhook(ctx context.Context, event stripe.Event) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "stripe_event_id", Value: event.ID},
		observability.Field{Key: "stripe_event_type", Value: string(event.Type)},
	)

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		var subscription stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
			p.logger.Error(ctx, "failed to unmarshal subscription", err)
			return fmt.Errorf("%w: %v", ErrInvalidSubscription, err)
		}
		return p.SubscriptionChanged(ctx, subscription)

	case "customer.subscription.deleted":
		var subscription stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
			p.logger.Error(ctx, "failed to unmarshal subscription", err)
			return fmt.Errorf("%w: %v", ErrInvalidSubscription, err)
		}
		return p.SubscriptionDeleted(ctx, subscription)

	default:
		p.logger.Info(ctx, fmt.Sprintf("Unhandled event type: %s", event.Type))
	}

	return nil
}

// SubscriptionChanged writes the subscription's tier, status and renewal date
// onto the account's plan.
func (p *BillingProcessor) SubscriptionChanged(ctx context.Context, subscription stripe.Subscription) error {
	accountID, err := accountFromMetadata(subscription)
	if err != nil {
		p.logger.Error(ctx, "subscription has no account", err)
		return err
	}
	tier := tierFor(subscription)
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "account_id", Value: accountID.String()},
		observability.Field{Key: "plan_tier", Value: string(tier)},
	)

	params := paramsFor(accountID, tier, statusFor(subscription.Status), subscription.ID)
	if subscription.CurrentPeriodEnd > 0 {
		renewal := time.Unix(subscription.CurrentPeriodEnd, 0).UTC()
		params.RenewalDate = &renewal
	}

	if _, err := p.store.UpsertSubscription(ctx, params); err != nil {
		p.logger.Error(ctx, "failed to update plan", err)
		return fmt.Errorf("%w: %v", ErrFailedToUpdatePlan, err)
	}
	p.logger.Info(ctx, "Plan updated")
	return nil
}

// SubscriptionDeleted moves the account back to the free tier
func (p *BillingProcessor) SubscriptionDeleted(ctx context.Context, subscription stripe.Subscription) error {
	accountID, err := accountFromMetadata(subscription)
	if err != nil {
		p.logger.Error(ctx, "subscription has no account", err)
		return err
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "account_id", Value: accountID.String()})

	params := paramsFor(accountID, tiers.TierFree, store.SubscriptionStatusActive, subscription.ID)
	if _, err := p.store.UpsertSubscription(ctx, params); err != nil {
		p.logger.Error(ctx, "failed to downgrade plan", err)
		return fmt.Errorf("%w: %v", ErrFailedToUpdatePlan, err)
	}
	p.logger.Info(ctx, "Plan downgraded to free tier")
	return nil
}

func accountFromMetadata(subscription stripe.Subscription) (uuid.UUID, error) {
	raw, ok := subscription.Metadata[MetadataAccountID]
	if !ok || raw == "" {
		return uuid.Nil, fmt.Errorf("%w: missing %s metadata", ErrInvalidSubscription, MetadataAccountID)
	}
	accountID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a uuid", ErrInvalidSubscription, MetadataAccountID)
	}
	return accountID, nil
}

// tierFor prefers the plan_tier metadata and falls back to the price lookup key
func tierFor(subscription stripe.Subscription) tiers.TierName {
	if tier, ok := tiers.ParseTier(subscription.Metadata[MetadataPlanTier]); ok {
		return tier
	}
	if subscription.Items != nil {
		for _, item := range subscription.Items.Data {
			if item != nil && item.Price != nil && item.Price.LookupKey != "" {
				return tiers.GetTierForPriceLookupKey(item.Price.LookupKey)
			}
		}
	}
	return tiers.TierFree
}

func statusFor(status stripe.SubscriptionStatus) string {
	switch status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing, stripe.SubscriptionStatusPastDue:
		return store.SubscriptionStatusActive
	default:
		return store.SubscriptionStatusCancelled
	}
}

func paramsFor(accountID uuid.UUID, tier tiers.TierName, status, stripeID string) store.UpsertSubscriptionParams {
	limits := tiers.LimitsFor(tier)
	params := store.UpsertSubscriptionParams{
		AccountID:              accountID,
		PlanTier:               string(tier),
		Status:                 status,
		MaxCalls:               limits.MaxCalls,
		MaxMinutes:             limits.MaxMinutes,
		AISupport:              limits.AISupport,
		VoicemailTranscription: limits.VoicemailTranscription,
		Analytics:              limits.Analytics,
	}
	if stripeID != "" {
		params.StripeSubscriptionID = &stripeID
	}
	return params
}
