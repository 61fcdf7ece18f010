package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Account is a phone-assistant user together with their preferences.
type Account struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	PhoneNumber        string    `db:"phone_number" json:"phone_number"`
	Email              string    `db:"email" json:"email"`
	DisplayName        string    `db:"display_name" json:"display_name"`
	AIModel            string    `db:"ai_model" json:"ai_model"`
	Voice              string    `db:"voice" json:"voice"`
	ResponseLength     string    `db:"response_length" json:"response_length"`
	Language           string    `db:"language" json:"language"`
	CustomGreeting     *string   `db:"custom_greeting" json:"custom_greeting,omitempty"`
	CustomInstructions *string   `db:"custom_instructions" json:"custom_instructions,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

type CreateAccountParams struct {
	PhoneNumber    string
	Email          string
	DisplayName    string
	ResponseLength string
	Language       string
}

// UpdatePreferencesParams holds optional preference changes; nil fields are left untouched.
type UpdatePreferencesParams struct {
	DisplayName        *string
	AIModel            *string
	Voice              *string
	ResponseLength     *string
	Language           *string
	CustomGreeting     *string
	CustomInstructions *string
}

const accountColumns = `
    id, phone_number, email, display_name, ai_model, voice, response_length, language,
    custom_greeting, custom_instructions, created_at, updated_at`

const sqlCreateAccount = `
INSERT INTO accounts (phone_number, email, display_name, response_length, language)
VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), 'medium'), COALESCE(NULLIF($5, ''), 'en-US'))
RETURNING` + accountColumns

// CreateAccount inserts a new account. Signup itself lives outside this service;
// this is used by provisioning and tests.
func (s *Store) CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error) {
	var account Account
	err := s.db.GetContext(ctx, &account, sqlCreateAccount,
		params.PhoneNumber,
		params.Email,
		params.DisplayName,
		params.ResponseLength,
		params.Language,
	)
	if err != nil {
		s.logger.Error(ctx, "failed to create account", err)
		return Account{}, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

const sqlGetAccountByPhoneNumber = `SELECT` + accountColumns + `
FROM accounts
WHERE phone_number = $1`

// GetAccountByPhoneNumber looks up an account by its E.164 phone number.
func (s *Store) GetAccountByPhoneNumber(ctx context.Context, phoneNumber string) (Account, error) {
	var account Account
	err := s.db.GetContext(ctx, &account, sqlGetAccountByPhoneNumber, phoneNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get account by phone number", err)
		return Account{}, fmt.Errorf("failed to get account by phone number: %w", err)
	}
	return account, nil
}

const sqlGetAccountByID = `SELECT` + accountColumns + `
FROM accounts
WHERE id = $1`

func (s *Store) GetAccountByID(ctx context.Context, accountID uuid.UUID) (Account, error) {
	var account Account
	err := s.db.GetContext(ctx, &account, sqlGetAccountByID, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get account by id", err)
		return Account{}, fmt.Errorf("failed to get account by id: %w", err)
	}
	return account, nil
}

const sqlUpdateAccountPreferences = `
UPDATE accounts SET
    display_name        = COALESCE($2, display_name),
    ai_model            = COALESCE($3, ai_model),
    voice               = COALESCE($4, voice),
    response_length     = COALESCE($5, response_length),
    language            = COALESCE($6, language),
    custom_greeting     = COALESCE($7, custom_greeting),
    custom_instructions = COALESCE($8, custom_instructions),
    updated_at          = NOW()
WHERE id = $1
RETURNING` + accountColumns

// UpdateAccountPreferences applies the non-nil preference fields.
func (s *Store) UpdateAccountPreferences(ctx context.Context, accountID uuid.UUID, params UpdatePreferencesParams) (Account, error) {
	var account Account
	err := s.db.GetContext(ctx, &account, sqlUpdateAccountPreferences,
		accountID,
		params.DisplayName,
		params.AIModel,
		params.Voice,
		params.ResponseLength,
		params.Language,
		params.CustomGreeting,
		params.CustomInstructions,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update account preferences", err)
		return Account{}, fmt.Errorf("failed to update account preferences: %w", err)
	}
	return account, nil
}
