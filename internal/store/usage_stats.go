package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UsageStats holds lifetime and current-month usage counters for an account.
// The monthly counters belong to the calendar month (UTC) of LastResetDate.
type UsageStats struct {
	AccountID          uuid.UUID  `db:"account_id" json:"account_id"`
	CallsMade          int        `db:"calls_made" json:"calls_made"`
	MinutesUsed        float64    `db:"minutes_used" json:"minutes_used"`
	Voicemails         int        `db:"voicemails" json:"voicemails"`
	LastCallDate       *time.Time `db:"last_call_date" json:"last_call_date,omitempty"`
	MonthlyCallsUsed   int        `db:"monthly_calls_used" json:"monthly_calls_used"`
	MonthlyMinutesUsed float64    `db:"monthly_minutes_used" json:"monthly_minutes_used"`
	LastResetDate      time.Time  `db:"last_reset_date" json:"last_reset_date"`
}

// SameMonth reports whether a and b fall in the same UTC calendar month.
func SameMonth(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// MonthlyAt returns the monthly counters as they stand at now. Counters from an
// earlier month have not been reset yet and count as zero.
func (u UsageStats) MonthlyAt(now time.Time) (calls int, minutes float64) {
	if !SameMonth(u.LastResetDate, now) {
		return 0, 0
	}
	return u.MonthlyCallsUsed, u.MonthlyMinutesUsed
}

const usageStatsColumns = `
    account_id, calls_made, minutes_used, voicemails, last_call_date,
    monthly_calls_used, monthly_minutes_used, last_reset_date`

const sqlGetUsageStats = `SELECT` + usageStatsColumns + `
FROM usage_stats
WHERE account_id = $1`

func (s *Store) GetUsageStats(ctx context.Context, accountID uuid.UUID) (UsageStats, error) {
	var stats UsageStats
	err := s.db.GetContext(ctx, &stats, sqlGetUsageStats, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UsageStats{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get usage stats", err)
		return UsageStats{}, fmt.Errorf("failed to get usage stats: %w", err)
	}
	return stats, nil
}

// The month comparison and the increments happen in one statement so that
// concurrent calls for the same account never lose an update.
const sqlRecordCallUsage = `
INSERT INTO usage_stats AS u (
    account_id, calls_made, minutes_used, voicemails, last_call_date,
    monthly_calls_used, monthly_minutes_used, last_reset_date
)
VALUES ($1, 1, $2, 0, $3, 1, $2, $3)
ON CONFLICT (account_id) DO UPDATE SET
    calls_made     = u.calls_made + 1,
    minutes_used   = u.minutes_used + EXCLUDED.minutes_used,
    last_call_date = EXCLUDED.last_call_date,
    monthly_calls_used = CASE
        WHEN date_trunc('month', u.last_reset_date AT TIME ZONE 'UTC') = date_trunc('month', EXCLUDED.last_reset_date AT TIME ZONE 'UTC')
        THEN u.monthly_calls_used + 1
        ELSE 1
    END,
    monthly_minutes_used = CASE
        WHEN date_trunc('month', u.last_reset_date AT TIME ZONE 'UTC') = date_trunc('month', EXCLUDED.last_reset_date AT TIME ZONE 'UTC')
        THEN u.monthly_minutes_used + EXCLUDED.monthly_minutes_used
        ELSE EXCLUDED.monthly_minutes_used
    END,
    last_reset_date = CASE
        WHEN date_trunc('month', u.last_reset_date AT TIME ZONE 'UTC') = date_trunc('month', EXCLUDED.last_reset_date AT TIME ZONE 'UTC')
        THEN u.last_reset_date
        ELSE EXCLUDED.last_reset_date
    END
RETURNING` + usageStatsColumns

// RecordCallUsage adds one call of the given length to the account's counters,
// resetting the monthly counters first when now is in a later month. The
// voicemails counter is left as is.
func (s *Store) RecordCallUsage(ctx context.Context, accountID uuid.UUID, minutes float64, now time.Time) (UsageStats, error) {
	var stats UsageStats
	err := s.db.GetContext(ctx, &stats, sqlRecordCallUsage, accountID, minutes, now.UTC())
	if err != nil {
		s.logger.Error(ctx, "failed to record call usage", err)
		return UsageStats{}, fmt.Errorf("failed to record call usage: %w", err)
	}
	return stats, nil
}
