package store

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Fixtures provides factory functions for creating test data.
// All factory methods use testify/require to fail fast on errors.
type Fixtures struct {
	t      *testing.T
	testDB *TestDB
	ctx    context.Context
}

// NewFixtures creates a new Fixtures instance for test data generation.
func NewFixtures(t *testing.T, testDB *TestDB) *Fixtures {
	t.Helper()
	return &Fixtures{
		t:      t,
		testDB: testDB,
		ctx:    context.Background(),
	}
}

// --- Account Fixtures ---

// AccountOpts customizes account creation.
type AccountOpts struct {
	PhoneNumber    string
	Email          string
	DisplayName    string
	ResponseLength string
}

// CreateAccount creates a test account with a unique phone number.
func (f *Fixtures) CreateAccount(opts ...func(*AccountOpts)) Account {
	f.t.Helper()
	// store tests run in parallel against a shared database, so numbers must not repeat across runs
	n := rand.Int63n(1_000_000_000_000_000)
	o := AccountOpts{
		PhoneNumber: fmt.Sprintf("+1%015d", n),
		Email:       fmt.Sprintf("caller%d@example.com", n),
		DisplayName: "Test Caller",
	}
	for _, fn := range opts {
		fn(&o)
	}

	account, err := f.testDB.Store.CreateAccount(f.ctx, CreateAccountParams{
		PhoneNumber:    o.PhoneNumber,
		Email:          o.Email,
		DisplayName:    o.DisplayName,
		ResponseLength: o.ResponseLength,
	})
	require.NoError(f.t, err, "failed to create test account")
	return account
}

// --- Subscription Fixtures ---

// CreateSubscription gives the account an active plan with the given limits.
func (f *Fixtures) CreateSubscription(accountID uuid.UUID, tier string, maxCalls, maxMinutes int) Subscription {
	f.t.Helper()
	sub, err := f.testDB.Store.UpsertSubscription(f.ctx, UpsertSubscriptionParams{
		AccountID:              accountID,
		PlanTier:               tier,
		Status:                 SubscriptionStatusActive,
		MaxCalls:               maxCalls,
		MaxMinutes:             maxMinutes,
		AISupport:              true,
		VoicemailTranscription: true,
	})
	require.NoError(f.t, err, "failed to create test subscription")
	return sub
}

// --- Conversation Fixtures ---

// CreateConversation creates a processing conversation for the account.
func (f *Fixtures) CreateConversation(account Account) Conversation {
	f.t.Helper()
	conversation, err := f.testDB.Store.CreateConversation(f.ctx, CreateConversationParams{
		AccountID:   account.ID,
		PhoneNumber: account.PhoneNumber,
		SessionID:   uuid.NewString(),
	})
	require.NoError(f.t, err, "failed to create test conversation")
	return conversation
}

// CreateCompletedConversation creates a conversation already completed at createdAt.
func (f *Fixtures) CreateCompletedConversation(account Account, userMessage, aiResponse string, createdAt time.Time) Conversation {
	f.t.Helper()
	conversation := f.CreateConversation(account)
	err := f.testDB.Store.CompleteConversation(f.ctx, conversation.ID, CompleteConversationParams{
		UserMessage: userMessage,
		AIResponse:  aiResponse,
	})
	require.NoError(f.t, err, "failed to complete test conversation")
	f.testDB.MustExec(f.t, `UPDATE conversations SET created_at = $2 WHERE id = $1`, conversation.ID, createdAt)

	conversation, err = f.testDB.Store.GetConversationByID(f.ctx, conversation.ID)
	require.NoError(f.t, err)
	return conversation
}

// SetUsage overwrites an account's usage row.
func (f *Fixtures) SetUsage(accountID uuid.UUID, monthlyCalls int, monthlyMinutes float64, lastReset time.Time) {
	f.t.Helper()
	f.testDB.MustExec(f.t, `
		INSERT INTO usage_stats (account_id, calls_made, minutes_used, monthly_calls_used, monthly_minutes_used, last_reset_date)
		VALUES ($1, $2, $3, $2, $3, $4)
		ON CONFLICT (account_id) DO UPDATE SET
			calls_made = EXCLUDED.calls_made,
			minutes_used = EXCLUDED.minutes_used,
			monthly_calls_used = EXCLUDED.monthly_calls_used,
			monthly_minutes_used = EXCLUDED.monthly_minutes_used,
			last_reset_date = EXCLUDED.last_reset_date`,
		accountID, monthlyCalls, monthlyMinutes, lastReset)
}
