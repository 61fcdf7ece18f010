package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=processor.go -destination=mocks_test.go -package=processor

import (
	"callassist-server/internal/observability"
	"callassist-server/internal/store"
	"callassist-server/internal/tiers"
	"callassist-server/internal/usage/lock"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UsageStore defines the database operations required by UsageProcessor
type UsageStore interface {
	GetUsageStats(ctx context.Context, accountID uuid.UUID) (store.UsageStats, error)
	RecordCallUsage(ctx context.Context, accountID uuid.UUID, minutes float64, now time.Time) (store.UsageStats, error)
}

// PlanResolver returns the plan in force for an account
type PlanResolver interface {
	GetPlanByAccountID(ctx context.Context, accountID uuid.UUID) (tiers.Plan, error)
}

// QuotaNotifier is told when an account is turned away for exceeding its quota
type QuotaNotifier interface {
	NotifyQuotaExceeded(ctx context.Context, accountID uuid.UUID, reason string) error
}

var ErrQuotaExceeded = errors.New("quota exceeded")

// Reasons reported to callers who are over quota
const (
	ReasonCallLimit   = "Monthly call limit exceeded"
	ReasonMinuteLimit = "Monthly minute limit exceeded"
)

// QuotaDecision is the outcome of a quota check
type QuotaDecision struct {
	Allowed            bool
	Reason             string
	Plan               tiers.Plan
	MonthlyCallsUsed   int
	MonthlyMinutesUsed float64
}

// Err returns nil for an allowed decision and an ErrQuotaExceeded wrap otherwise.
func (d QuotaDecision) Err() error {
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrQuotaExceeded, d.Reason)
}

type UsageProcessor struct {
	store    UsageStore
	plans    PlanResolver
	locker   lock.Locker
	notifier QuotaNotifier
	logger   *observability.Logger
	now      func() time.Time
}

// New creates a UsageProcessor. notifier may be nil.
func New(store UsageStore, plans PlanResolver, locker lock.Locker, notifier QuotaNotifier, logger *observability.Logger) UsageProcessor {
	return UsageProcessor{
		store:    store,
		plans:    plans,
		locker:   locker,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// CheckQuota compares the account's current-month usage with its plan limits
// ahead of a call. A denial is logged and handed to the notifier.
func (p *UsageProcessor) CheckQuota(ctx context.Context, accountID uuid.UUID) (QuotaDecision, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "account_id", Value: accountID.String()})

	decision, err := p.QuotaStatus(ctx, accountID)
	if err != nil {
		return QuotaDecision{}, err
	}

	if !decision.Allowed {
		ctx = observability.WithFields(ctx,
			observability.Field{Key: "plan_tier", Value: decision.Plan.TierName},
			observability.Field{Key: "monthly_calls_used", Value: decision.MonthlyCallsUsed},
			observability.Field{Key: "monthly_minutes_used", Value: decision.MonthlyMinutesUsed},
		)
		p.logger.Info(ctx, decision.Reason)
		if p.notifier != nil {
			if err := p.notifier.NotifyQuotaExceeded(ctx, accountID, decision.Reason); err != nil {
				p.logger.WarnWithError(ctx, "failed to schedule quota notice", err)
			}
		}
	}
	return decision, nil
}

// QuotaStatus evaluates the quota without side effects.
func (p *UsageProcessor) QuotaStatus(ctx context.Context, accountID uuid.UUID) (QuotaDecision, error) {
	plan, err := p.plans.GetPlanByAccountID(ctx, accountID)
	if err != nil {
		p.logger.Error(ctx, "failed to resolve plan", err)
		return QuotaDecision{}, fmt.Errorf("failed to resolve plan: %w", err)
	}

	calls, minutes, err := p.monthlyUsage(ctx, accountID)
	if err != nil {
		return QuotaDecision{}, err
	}

	decision := QuotaDecision{
		Allowed:            true,
		Plan:               plan,
		MonthlyCallsUsed:   calls,
		MonthlyMinutesUsed: minutes,
	}
	switch {
	case plan.Limits.MaxCalls != tiers.Unlimited && calls >= plan.Limits.MaxCalls:
		decision.Allowed = false
		decision.Reason = ReasonCallLimit
	case plan.Limits.MaxMinutes != tiers.Unlimited && minutes >= float64(plan.Limits.MaxMinutes):
		decision.Allowed = false
		decision.Reason = ReasonMinuteLimit
	}
	return decision, nil
}

// RecordUsage adds one call of durationSeconds to the account's counters. Calls
// for the same account are serialized by the locker on top of the store's
// single-statement update.
func (p *UsageProcessor) RecordUsage(ctx context.Context, accountID uuid.UUID, durationSeconds int) (store.UsageStats, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "account_id", Value: accountID.String()},
		observability.Field{Key: "duration_seconds", Value: durationSeconds},
	)
	if durationSeconds < 0 {
		durationSeconds = 0
	}

	unlock, err := p.locker.Lock(ctx, "usage:"+accountID.String())
	if err != nil {
		p.logger.Error(ctx, "failed to lock usage counters", err)
		return store.UsageStats{}, fmt.Errorf("failed to lock usage counters: %w", err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			p.logger.WarnWithError(ctx, "failed to unlock usage counters", err)
		}
	}()

	stats, err := p.store.RecordCallUsage(ctx, accountID, float64(durationSeconds)/60, p.now().UTC())
	if err != nil {
		p.logger.Error(ctx, "failed to record usage", err)
		return store.UsageStats{}, fmt.Errorf("failed to record usage: %w", err)
	}
	return stats, nil
}

// Summary is the usage view served to the account owner
type Summary struct {
	Stats              store.UsageStats `json:"stats"`
	MonthlyCallsUsed   int              `json:"monthly_calls_used"`
	MonthlyMinutesUsed float64          `json:"monthly_minutes_used"`
	CallsRemaining     *int             `json:"calls_remaining"`
	MinutesRemaining   *float64         `json:"minutes_remaining"`
	Plan               tiers.Plan       `json:"plan"`
}

// GetSummary returns lifetime and current-month usage with what is left on the plan.
// Remaining values are nil for unlimited plans.
func (p *UsageProcessor) GetSummary(ctx context.Context, accountID uuid.UUID) (Summary, error) {
	plan, err := p.plans.GetPlanByAccountID(ctx, accountID)
	if err != nil {
		p.logger.Error(ctx, "failed to resolve plan", err)
		return Summary{}, fmt.Errorf("failed to resolve plan: %w", err)
	}

	stats, err := p.store.GetUsageStats(ctx, accountID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		p.logger.Error(ctx, "failed to get usage stats", err)
		return Summary{}, fmt.Errorf("failed to get usage stats: %w", err)
	}
	stats.AccountID = accountID
	calls, minutes := stats.MonthlyAt(p.now())

	summary := Summary{
		Stats:              stats,
		MonthlyCallsUsed:   calls,
		MonthlyMinutesUsed: minutes,
		Plan:               plan,
	}
	if plan.Limits.MaxCalls != tiers.Unlimited {
		remaining := max(plan.Limits.MaxCalls-calls, 0)
		summary.CallsRemaining = &remaining
	}
	if plan.Limits.MaxMinutes != tiers.Unlimited {
		remaining := max(float64(plan.Limits.MaxMinutes)-minutes, 0)
		summary.MinutesRemaining = &remaining
	}
	return summary, nil
}

// monthlyUsage returns the counters of the current month. A missing row or a row
// from an earlier month counts as no usage.
func (p *UsageProcessor) monthlyUsage(ctx context.Context, accountID uuid.UUID) (int, float64, error) {
	stats, err := p.store.GetUsageStats(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, 0, nil
		}
		p.logger.Error(ctx, "failed to get usage stats", err)
		return 0, 0, fmt.Errorf("failed to get usage stats: %w", err)
	}
	calls, minutes := stats.MonthlyAt(p.now())
	return calls, minutes, nil
}
