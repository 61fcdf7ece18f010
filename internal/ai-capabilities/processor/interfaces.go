package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=interfaces.go -destination=mocks_test.go -package=processor

import (
	"callassist-server/internal/store"
	"context"

	"github.com/google/uuid"
)

// HistoryReader returns an account's completed conversations, most recent first
type HistoryReader interface {
	History(ctx context.Context, accountID uuid.UUID, limit int) ([]store.Conversation, error)
}

// Backend is a text generation provider. Complete returns an empty string with a
// nil error when the provider answered but produced no usable text.
type Backend interface {
	Name() string
	Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (string, error)
}
