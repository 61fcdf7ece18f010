package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Subscription is an account's plan with the limits that were granted with it.
type Subscription struct {
	ID                     uuid.UUID  `db:"id" json:"id"`
	AccountID              uuid.UUID  `db:"account_id" json:"account_id"`
	PlanTier               string     `db:"plan_tier" json:"plan_tier"`
	Status                 string     `db:"status" json:"status"`
	RenewalDate            *time.Time `db:"renewal_date" json:"renewal_date,omitempty"`
	MaxCalls               int        `db:"max_calls" json:"max_calls"`
	MaxMinutes             int        `db:"max_minutes" json:"max_minutes"`
	AISupport              bool       `db:"ai_support" json:"ai_support"`
	VoicemailTranscription bool       `db:"voicemail_transcription" json:"voicemail_transcription"`
	Analytics              bool       `db:"analytics" json:"analytics"`
	StripeSubscriptionID   *string    `db:"stripe_subscription_id" json:"-"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the subscription grants its plan at the given time.
func (s Subscription) IsActive(now time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	return s.RenewalDate == nil || s.RenewalDate.After(now)
}

// UpsertSubscriptionParams carries a plan change for an account. Limits are
// resolved from the plan tier by the caller.
type UpsertSubscriptionParams struct {
	AccountID              uuid.UUID
	PlanTier               string
	Status                 string
	RenewalDate            *time.Time
	MaxCalls               int
	MaxMinutes             int
	AISupport              bool
	VoicemailTranscription bool
	Analytics              bool
	StripeSubscriptionID   *string
}

const subscriptionColumns = `
    id, account_id, plan_tier, status, renewal_date, max_calls, max_minutes,
    ai_support, voicemail_transcription, analytics, stripe_subscription_id,
    created_at, updated_at`

const sqlGetSubscriptionByAccountID = `SELECT` + subscriptionColumns + `
FROM subscriptions
WHERE account_id = $1`

func (s *Store) GetSubscriptionByAccountID(ctx context.Context, accountID uuid.UUID) (Subscription, error) {
	var sub Subscription
	err := s.db.GetContext(ctx, &sub, sqlGetSubscriptionByAccountID, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Subscription{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get subscription by account id", err)
		return Subscription{}, fmt.Errorf("failed to get subscription by account id: %w", err)
	}
	return sub, nil
}

const sqlUpsertSubscription = `
INSERT INTO subscriptions (
    account_id, plan_tier, status, renewal_date, max_calls, max_minutes,
    ai_support, voicemail_transcription, analytics, stripe_subscription_id
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (account_id) DO UPDATE SET
    plan_tier               = EXCLUDED.plan_tier,
    status                  = EXCLUDED.status,
    renewal_date            = EXCLUDED.renewal_date,
    max_calls               = EXCLUDED.max_calls,
    max_minutes             = EXCLUDED.max_minutes,
    ai_support              = EXCLUDED.ai_support,
    voicemail_transcription = EXCLUDED.voicemail_transcription,
    analytics               = EXCLUDED.analytics,
    stripe_subscription_id  = COALESCE(EXCLUDED.stripe_subscription_id, subscriptions.stripe_subscription_id),
    updated_at              = NOW()
RETURNING` + subscriptionColumns

// UpsertSubscription creates or replaces the single subscription row of an account.
func (s *Store) UpsertSubscription(ctx context.Context, params UpsertSubscriptionParams) (Subscription, error) {
	var sub Subscription
	err := s.db.GetContext(ctx, &sub, sqlUpsertSubscription,
		params.AccountID,
		params.PlanTier,
		params.Status,
		params.RenewalDate,
		params.MaxCalls,
		params.MaxMinutes,
		params.AISupport,
		params.VoicemailTranscription,
		params.Analytics,
		params.StripeSubscriptionID,
	)
	if err != nil {
		s.logger.Error(ctx, "failed to upsert subscription", err)
		return Subscription{}, fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return sub, nil
}

const sqlExpireLapsedSubscriptions = `
UPDATE subscriptions
SET status = 'expired', updated_at = NOW()
WHERE status = 'active'
  AND renewal_date IS NOT NULL
  AND renewal_date <= $1
RETURNING account_id`

// ExpireLapsedSubscriptions marks active subscriptions whose renewal date has
// passed as expired and returns the affected account ids.
func (s *Store) ExpireLapsedSubscriptions(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var accountIDs []uuid.UUID
	err := s.db.SelectContext(ctx, &accountIDs, sqlExpireLapsedSubscriptions, now)
	if err != nil {
		s.logger.Error(ctx, "failed to expire lapsed subscriptions", err)
		return nil, fmt.Errorf("failed to expire lapsed subscriptions: %w", err)
	}
	return accountIDs, nil
}
