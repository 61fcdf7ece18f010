package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"time"

	"callassist-server/internal/clients/mail"
	"callassist-server/internal/jobs"
	"callassist-server/internal/observability"
	"callassist-server/internal/store"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// AccountReader loads the account to notify
type AccountReader interface {
	GetAccount(ctx context.Context, accountID uuid.UUID) (store.Account, error)
}

// Mailer sends transactional email
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) (string, error)
}

// OnceGuard claims a key so a notice is sent at most once
type OnceGuard interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// QuotaNoticeWorker emails accounts that reached their monthly plan limit
type QuotaNoticeWorker struct {
	accounts  AccountReader
	mailer    Mailer
	guard     OnceGuard
	webAppURI string
	logger    *observability.Logger
}

// NewQuotaNoticeWorker creates a new quota notice worker. guard may be nil.
func NewQuotaNoticeWorker(accounts AccountReader, mailer Mailer, guard OnceGuard, webAppURI string, logger *observability.Logger) *QuotaNoticeWorker {
	return &QuotaNoticeWorker{
		accounts:  accounts,
		mailer:    mailer,
		guard:     guard,
		webAppURI: webAppURI,
		logger:    logger,
	}
}

// ProcessQuotaNoticeTask processes a quota notice task (for Asynq)
func (w *QuotaNoticeWorker) ProcessQuotaNoticeTask(ctx context.Context, task *asynq.Task) error {
	var payload jobs.QuotaNoticeJobPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		w.logger.Error(ctx, "failed to unmarshal quota notice payload", err)
		return fmt.Errorf("failed to unmarshal quota notice payload: %w", asynq.SkipRetry)
	}
	return w.processQuotaNotice(ctx, payload)
}

func (w *QuotaNoticeWorker) processQuotaNotice(ctx context.Context, payload jobs.QuotaNoticeJobPayload) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "account_id", Value: payload.AccountID.String()},
		observability.Field{Key: "month", Value: payload.Month},
	)

	account, err := w.accounts.GetAccount(ctx, payload.AccountID)
	if err != nil {
		w.logger.Error(ctx, "failed to get account", err)
		return fmt.Errorf("failed to get account: %w", err)
	}
	if account.Email == "" {
		w.logger.Info(ctx, "account has no email address, skipping quota notice")
		return nil
	}

	key := payload.NoticeKey()
	if w.guard != nil {
		claimed, err := w.guard.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), jobs.QuotaNoticeRetention)
		if err != nil {
			w.logger.WarnWithError(ctx, "failed to claim quota notice, sending anyway", err)
		} else if !claimed {
			w.logger.Info(ctx, "quota notice already sent this month")
			return nil
		}
	}

	_, err = w.mailer.Send(ctx, quotaNoticeMessage(account, payload.Reason, w.webAppURI))
	if err != nil {
		if w.guard != nil {
			if delErr := w.guard.Del(ctx, key); delErr != nil {
				w.logger.WarnWithError(ctx, "failed to release quota notice claim", delErr)
			}
		}
		w.logger.Error(ctx, "failed to send quota notice", err)
		return fmt.Errorf("failed to send quota notice: %w", err)
	}

	w.logger.Info(ctx, "quota notice sent")
	return nil
}

func quotaNoticeMessage(account store.Account, reason, webAppURI string) mail.Message {
	name := account.DisplayName
	if name == "" {
		name = "there"
	}
	upgradeURL := webAppURI + "/settings/plan"

	text := fmt.Sprintf("Hi %s,\n\n%s. Your assistant will answer callers with a short notice until your plan renews next month.\n\nUpgrade your plan: %s\n", name, reason, upgradeURL)
	body := fmt.Sprintf("<p>Hi %s,</p><p>%s. Your assistant will answer callers with a short notice until your plan renews next month.</p><p><a href=\"%s\">Upgrade your plan</a></p>",
		html.EscapeString(name), html.EscapeString(reason), html.EscapeString(upgradeURL))

	return mail.Message{
		To:      account.Email,
		Subject: "You've reached your monthly call limit",
		HTML:    body,
		Text:    text,
	}
}
