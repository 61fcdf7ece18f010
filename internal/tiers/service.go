package tiers

//go:generate go run go.uber.org/mock/mockgen@latest -source=service.go -destination=mocks_test.go -package=tiers

import (
	"context"
	"errors"
	"time"

	"callassist-server/internal/observability"
	"callassist-server/internal/store"

	"github.com/google/uuid"
)

// TierStore defines the database operations required by TierService
type TierStore interface {
	GetSubscriptionByAccountID(ctx context.Context, accountID uuid.UUID) (store.Subscription, error)
}

// TierService resolves the plan in force for an account
type TierService struct {
	store  TierStore
	logger *observability.Logger
	now    func() time.Time
}

// New creates a new TierService
func New(store TierStore, logger *observability.Logger) *TierService {
	return &TierService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Plan is the effective plan of an account
type Plan struct {
	TierName    string     `json:"tier_name"`
	DisplayName string     `json:"display_name"`
	Status      string     `json:"status"`
	RenewalDate *time.Time `json:"renewal_date,omitempty"`
	Limits      Limits     `json:"limits"`
	// Fallback is set when the account has no active subscription and the free tier applies.
	Fallback bool `json:"fallback"`
}

// GetPlanByAccountID returns the limits stored on the account's active
// subscription. Accounts without one, or whose subscription is cancelled,
// expired or past its renewal date, get the free tier.
func (s *TierService) GetPlanByAccountID(ctx context.Context, accountID uuid.UUID) (Plan, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "operation", Value: "get_plan"},
		observability.Field{Key: "account_id", Value: accountID.String()},
	)

	sub, err := s.store.GetSubscriptionByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return freePlan(""), nil
		}
		s.logger.Error(ctx, "failed to get subscription", err)
		return Plan{}, err
	}

	if !sub.IsActive(s.now()) {
		s.logger.Info(ctx, "subscription not active, using free tier")
		return freePlan(sub.Status), nil
	}

	tier, ok := ParseTier(sub.PlanTier)
	if !ok {
		tier = TierFree
	}
	return Plan{
		TierName:    string(tier),
		DisplayName: GetTierDisplayName(tier),
		Status:      sub.Status,
		RenewalDate: sub.RenewalDate,
		Limits: Limits{
			MaxCalls:               sub.MaxCalls,
			MaxMinutes:             sub.MaxMinutes,
			AISupport:              sub.AISupport,
			VoicemailTranscription: sub.VoicemailTranscription,
			Analytics:              sub.Analytics,
		},
	}, nil
}

func freePlan(status string) Plan {
	if status == "" {
		status = store.SubscriptionStatusActive
	}
	return Plan{
		TierName:    string(TierFree),
		DisplayName: GetTierDisplayName(TierFree),
		Status:      status,
		Limits:      TierLimits[TierFree],
		Fallback:    true,
	}
}
