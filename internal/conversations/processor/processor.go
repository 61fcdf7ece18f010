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
)

// ConversationStore defines the database operations required by ConversationProcessor
type ConversationStore interface {
	CreateConversation(ctx context.Context, params store.CreateConversationParams) (store.Conversation, error)
	CompleteConversation(ctx context.Context, conversationID uuid.UUID, params store.CompleteConversationParams) error
	FailConversation(ctx context.Context, conversationID uuid.UUID, userMessage, reason string, totalMs *int64) error
	GetConversationByID(ctx context.Context, conversationID uuid.UUID) (store.Conversation, error)
	GetConversationByCallSID(ctx context.Context, callSID string) (store.Conversation, error)
	GetRecentCompletedConversations(ctx context.Context, accountID uuid.UUID, limit int) ([]store.Conversation, error)
	ListConversationsByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]store.Conversation, error)
}

var (
	ErrPersistenceFailed     = errors.New("conversation persistence failed")
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrConversationFinalized = errors.New("conversation already finalized")
	ErrDuplicateCall         = errors.New("call already recorded")
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type ConversationProcessor struct {
	store   ConversationStore
	logger  *observability.Logger
	timeout time.Duration
}

// New creates a ConversationProcessor. timeout bounds every store attempt.
func New(store ConversationStore, logger *observability.Logger, timeout time.Duration) ConversationProcessor {
	return ConversationProcessor{
		store:   store,
		logger:  logger,
		timeout: timeout,
	}
}

// Draft describes a conversation at the start of a call
type Draft struct {
	AccountID       uuid.UUID
	PhoneNumber     string
	CallSID         string
	SessionID       string
	AudioURL        string
	DurationSeconds int
}

// Durations are the measured stage timings of one call. Zero means the stage did not run.
type Durations struct {
	Transcription time.Duration
	Generation    time.Duration
	Synthesis     time.Duration
	Total         time.Duration
}

// Exchange is what was said on a call
type Exchange struct {
	UserMessage string
	AIResponse  string
	Durations   Durations
}

// Create records a new conversation in the processing state and returns its id.
// A session id is generated when the draft has none.
func (p *ConversationProcessor) Create(ctx context.Context, draft Draft) (uuid.UUID, error) {
	if draft.SessionID == "" {
		draft.SessionID = uuid.NewString()
	}
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "account_id", Value: draft.AccountID.String()},
		observability.Field{Key: "session_id", Value: draft.SessionID},
	)

	attemptCtx, cancel := p.attemptContext(ctx)
	defer cancel()

	conversation, err := p.store.CreateConversation(attemptCtx, store.CreateConversationParams{
		AccountID:       draft.AccountID,
		PhoneNumber:     draft.PhoneNumber,
		CallSID:         optionalString(draft.CallSID),
		SessionID:       draft.SessionID,
		AudioURL:        optionalString(draft.AudioURL),
		DurationSeconds: draft.DurationSeconds,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateCall) {
			p.logger.Warn(ctx, "call already has a conversation")
			return uuid.Nil, ErrDuplicateCall
		}
		p.logger.Error(ctx, "failed to create conversation", err)
		return uuid.Nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return conversation.ID, nil
}

// ForCall returns the conversation recorded for callSID under accountID.
func (p *ConversationProcessor) ForCall(ctx context.Context, accountID uuid.UUID, callSID string) (store.Conversation, error) {
	attemptCtx, cancel := p.attemptContext(ctx)
	defer cancel()

	conversation, err := p.store.GetConversationByCallSID(attemptCtx, callSID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Conversation{}, ErrConversationNotFound
		}
		p.logger.Error(ctx, "failed to get conversation for call", err)
		return store.Conversation{}, fmt.Errorf("failed to get conversation for call: %w", err)
	}
	if conversation.AccountID != accountID {
		return store.Conversation{}, ErrConversationNotFound
	}
	return conversation, nil
}

// Complete marks the conversation completed with the reply that was given.
func (p *ConversationProcessor) Complete(ctx context.Context, conversationID uuid.UUID, exchange Exchange) error {
	ctx = observability.WithFields(ctx, observability.Field{Key: "conversation_id", Value: conversationID.String()})
	params := store.CompleteConversationParams{
		UserMessage:     exchange.UserMessage,
		AIResponse:      exchange.AIResponse,
		TranscriptionMs: millis(exchange.Durations.Transcription),
		GenerationMs:    millis(exchange.Durations.Generation),
		SynthesisMs:     millis(exchange.Durations.Synthesis),
		TotalMs:         millis(exchange.Durations.Total),
	}
	return p.withRetry(ctx, "complete", func(ctx context.Context) error {
		return p.store.CompleteConversation(ctx, conversationID, params)
	})
}

// Fail marks the conversation failed. No AI response is stored.
func (p *ConversationProcessor) Fail(ctx context.Context, conversationID uuid.UUID, reason string, exchange Exchange) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "conversation_id", Value: conversationID.String()},
		observability.Field{Key: "failure_reason", Value: reason},
	)
	total := millis(exchange.Durations.Total)
	return p.withRetry(ctx, "fail", func(ctx context.Context) error {
		return p.store.FailConversation(ctx, conversationID, exchange.UserMessage, reason, total)
	})
}

// History returns up to limit completed conversations, most recent first.
func (p *ConversationProcessor) History(ctx context.Context, accountID uuid.UUID, limit int) ([]store.Conversation, error) {
	if limit <= 0 {
		return []store.Conversation{}, nil
	}
	conversations, err := p.store.GetRecentCompletedConversations(ctx, accountID, limit)
	if err != nil {
		p.logger.Error(ctx, "failed to load conversation history", err)
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}
	return conversations, nil
}

// List pages through an account's conversations for the read API.
func (p *ConversationProcessor) List(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]store.Conversation, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	conversations, err := p.store.ListConversationsByAccountID(ctx, accountID, limit, offset)
	if err != nil {
		p.logger.Error(ctx, "failed to list conversations", err)
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

// Get returns a conversation owned by accountID. Conversations of other
// accounts are reported as not found.
func (p *ConversationProcessor) Get(ctx context.Context, accountID, conversationID uuid.UUID) (store.Conversation, error) {
	conversation, err := p.store.GetConversationByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Conversation{}, ErrConversationNotFound
		}
		p.logger.Error(ctx, "failed to get conversation", err)
		return store.Conversation{}, fmt.Errorf("failed to get conversation: %w", err)
	}
	if conversation.AccountID != accountID {
		return store.Conversation{}, ErrConversationNotFound
	}
	return conversation, nil
}

// withRetry runs op at most twice. Terminal-state and missing-row errors are not retried.
func (p *ConversationProcessor) withRetry(ctx context.Context, opName string, op func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= 2; attempt++ {
		attemptCtx, cancel := p.attemptContext(ctx)
		err = op(attemptCtx)
		cancel()

		switch {
		case err == nil:
			return nil
		case errors.Is(err, store.ErrConversationFinalized):
			p.logger.WarnWithError(ctx, "conversation already finalized", err)
			return ErrConversationFinalized
		case errors.Is(err, store.ErrNotFound):
			p.logger.Error(ctx, "conversation not found", err)
			return ErrConversationNotFound
		}
		if attempt == 1 {
			p.logger.WarnWithError(ctx, fmt.Sprintf("failed to %s conversation, retrying", opName), err)
		}
	}
	p.logger.Error(ctx, fmt.Sprintf("failed to %s conversation after retry", opName), err)
	return fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
}

func (p *ConversationProcessor) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func millis(d time.Duration) *int64 {
	if d <= 0 {
		return nil
	}
	ms := d.Milliseconds()
	return &ms
}
