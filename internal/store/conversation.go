package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation            = "23505"
	conversationCallSIDUniqueKey = "conversations_call_sid_key"
)

// Conversation is one call's exchange between a caller and the assistant.
type Conversation struct {
	ID               uuid.UUID `db:"id" json:"id"`
	AccountID        uuid.UUID `db:"account_id" json:"account_id"`
	PhoneNumber      string    `db:"phone_number" json:"phone_number"`
	CallSID          *string   `db:"call_sid" json:"call_sid,omitempty"`
	SessionID        string    `db:"session_id" json:"session_id"`
	UserMessage      string    `db:"user_message" json:"user_message"`
	AIResponse       *string   `db:"ai_response" json:"ai_response,omitempty"`
	AudioURL         *string   `db:"audio_url" json:"audio_url,omitempty"`
	ResponseAudioURL *string   `db:"response_audio_url" json:"response_audio_url,omitempty"`
	DurationSeconds  int       `db:"duration_seconds" json:"duration_seconds"`
	Status           string    `db:"status" json:"status"`
	FailureReason    *string   `db:"failure_reason" json:"failure_reason,omitempty"`
	TranscriptionMs  *int64    `db:"transcription_ms" json:"transcription_ms,omitempty"`
	GenerationMs     *int64    `db:"generation_ms" json:"generation_ms,omitempty"`
	SynthesisMs      *int64    `db:"synthesis_ms" json:"synthesis_ms,omitempty"`
	TotalMs          *int64    `db:"total_ms" json:"total_ms,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

type CreateConversationParams struct {
	AccountID       uuid.UUID
	PhoneNumber     string
	CallSID         *string
	SessionID       string
	AudioURL        *string
	DurationSeconds int
}

// CompleteConversationParams carries the final state of a successful exchange.
// Timings are in milliseconds; nil means the stage did not run.
type CompleteConversationParams struct {
	UserMessage      string
	AIResponse       string
	ResponseAudioURL *string
	TranscriptionMs  *int64
	GenerationMs     *int64
	SynthesisMs      *int64
	TotalMs          *int64
}

const conversationColumns = `
    id, account_id, phone_number, call_sid, session_id, user_message, ai_response,
    audio_url, response_audio_url, duration_seconds, status, failure_reason,
    transcription_ms, generation_ms, synthesis_ms, total_ms, created_at, updated_at`

const sqlCreateConversation = `
INSERT INTO conversations (account_id, phone_number, call_sid, session_id, audio_url, duration_seconds, status)
VALUES ($1, $2, $3, $4, $5, $6, 'processing')
RETURNING` + conversationColumns

// CreateConversation inserts a conversation in the processing state.
func (s *Store) CreateConversation(ctx context.Context, params CreateConversationParams) (Conversation, error) {
	var conversation Conversation
	err := s.db.GetContext(ctx, &conversation, sqlCreateConversation,
		params.AccountID,
		params.PhoneNumber,
		params.CallSID,
		params.SessionID,
		params.AudioURL,
		params.DurationSeconds,
	)
	if err != nil {
		if isDuplicateCall(err) {
			s.logger.Warn(ctx, "conversation already exists for call")
			return Conversation{}, ErrDuplicateCall
		}
		s.logger.Error(ctx, "failed to create conversation", err)
		return Conversation{}, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conversation, nil
}

func isDuplicateCall(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == pgUniqueViolation &&
		pgErr.ConstraintName == conversationCallSIDUniqueKey
}

const sqlCompleteConversation = `
UPDATE conversations SET
    status             = 'completed',
    user_message       = $2,
    ai_response        = $3,
    response_audio_url = $4,
    transcription_ms   = $5,
    generation_ms      = $6,
    synthesis_ms       = $7,
    total_ms           = $8,
    updated_at         = NOW()
WHERE id = $1 AND status = 'processing'`

// CompleteConversation moves a processing conversation to completed.
func (s *Store) CompleteConversation(ctx context.Context, conversationID uuid.UUID, params CompleteConversationParams) error {
	res, err := s.db.ExecContext(ctx, sqlCompleteConversation,
		conversationID,
		params.UserMessage,
		params.AIResponse,
		params.ResponseAudioURL,
		params.TranscriptionMs,
		params.GenerationMs,
		params.SynthesisMs,
		params.TotalMs,
	)
	if err != nil {
		s.logger.Error(ctx, "failed to complete conversation", err)
		return fmt.Errorf("failed to complete conversation: %w", err)
	}
	return s.checkTransition(ctx, res, conversationID)
}

const sqlFailConversation = `
UPDATE conversations SET
    status         = 'failed',
    user_message   = COALESCE(NULLIF($2, ''), user_message),
    failure_reason = $3,
    total_ms       = $4,
    updated_at     = NOW()
WHERE id = $1 AND status = 'processing'`

// FailConversation moves a processing conversation to failed. The AI response
// stays empty.
func (s *Store) FailConversation(ctx context.Context, conversationID uuid.UUID, userMessage, reason string, totalMs *int64) error {
	res, err := s.db.ExecContext(ctx, sqlFailConversation, conversationID, userMessage, reason, totalMs)
	if err != nil {
		s.logger.Error(ctx, "failed to fail conversation", err)
		return fmt.Errorf("failed to fail conversation: %w", err)
	}
	return s.checkTransition(ctx, res, conversationID)
}

// checkTransition tells a missing conversation apart from one already in a terminal state.
func (s *Store) checkTransition(ctx context.Context, res sql.Result, conversationID uuid.UUID) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 1 {
		return nil
	}
	if _, err := s.GetConversationByID(ctx, conversationID); err != nil {
		return err
	}
	return ErrConversationFinalized
}

const sqlGetConversationByID = `SELECT` + conversationColumns + `
FROM conversations
WHERE id = $1`

func (s *Store) GetConversationByID(ctx context.Context, conversationID uuid.UUID) (Conversation, error) {
	var conversation Conversation
	err := s.db.GetContext(ctx, &conversation, sqlGetConversationByID, conversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Conversation{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get conversation by id", err)
		return Conversation{}, fmt.Errorf("failed to get conversation by id: %w", err)
	}
	return conversation, nil
}

const sqlGetConversationByCallSID = `SELECT` + conversationColumns + `
FROM conversations
WHERE call_sid = $1`

// GetConversationByCallSID returns the conversation recorded for a telephony call.
func (s *Store) GetConversationByCallSID(ctx context.Context, callSID string) (Conversation, error) {
	var conversation Conversation
	err := s.db.GetContext(ctx, &conversation, sqlGetConversationByCallSID, callSID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Conversation{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get conversation by call sid", err)
		return Conversation{}, fmt.Errorf("failed to get conversation by call sid: %w", err)
	}
	return conversation, nil
}

const sqlGetRecentCompletedConversations = `SELECT` + conversationColumns + `
FROM conversations
WHERE account_id = $1 AND status = 'completed'
ORDER BY created_at DESC, id DESC
LIMIT $2`

// GetRecentCompletedConversations returns up to limit completed conversations,
// most recent first.
func (s *Store) GetRecentCompletedConversations(ctx context.Context, accountID uuid.UUID, limit int) ([]Conversation, error) {
	conversations := []Conversation{}
	err := s.db.SelectContext(ctx, &conversations, sqlGetRecentCompletedConversations, accountID, limit)
	if err != nil {
		s.logger.Error(ctx, "failed to get recent conversations", err)
		return nil, fmt.Errorf("failed to get recent conversations: %w", err)
	}
	return conversations, nil
}

const sqlListConversationsByAccountID = `SELECT` + conversationColumns + `
FROM conversations
WHERE account_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

// ListConversationsByAccountID pages through all of an account's conversations,
// most recent first.
func (s *Store) ListConversationsByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]Conversation, error) {
	conversations := []Conversation{}
	err := s.db.SelectContext(ctx, &conversations, sqlListConversationsByAccountID, accountID, limit, offset)
	if err != nil {
		s.logger.Error(ctx, "failed to list conversations", err)
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}
