package processor

import (
	"callassist-server/internal/observability"
	"callassist-server/internal/store"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mode is the channel the reply is delivered over. Voice replies are spoken
// back to the caller and get tighter length limits.
type Mode string

const (
	ModeVoice Mode = "voice"
	ModeText  Mode = "text"
)

// ParseMode returns the mode named by s, defaulting to voice.
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(s))) == ModeText {
		return ModeText
	}
	return ModeVoice
}

const defaultLanguage = "en-US"

// Turn is one past exchange between a caller and the assistant
type Turn struct {
	UserMessage string
	AIResponse  string
	At          time.Time
}

// ConversationContext is everything the generator knows about the account and
// its recent history for one reply.
type ConversationContext struct {
	AccountID          uuid.UUID
	DisplayName        string
	PhoneNumber        string
	Language           string
	ResponseLength     string
	PreferredBackend   string
	CustomGreeting     string
	CustomInstructions string
	Mode               Mode
	// Turns holds the rendered history, oldest first.
	Turns []Turn
	// History is Turns rendered as prompt text and bounded in length.
	History string
}

type ContextAssembler struct {
	history  HistoryReader
	logger   *observability.Logger
	maxChars int
}

func NewContextAssembler(history HistoryReader, logger *observability.Logger, maxChars int) ContextAssembler {
	return ContextAssembler{
		history:  history,
		logger:   logger,
		maxChars: maxChars,
	}
}

// Assemble loads up to limit recent completed conversations for the account and
// renders them together with the account's preferences. It never fails the
// call: a history read error is logged and yields an empty history.
func (a *ContextAssembler) Assemble(ctx context.Context, account store.Account, mode Mode, limit int) (ConversationContext, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "account_id", Value: account.ID.String()},
		observability.Field{Key: "history_limit", Value: limit},
	)

	cc := ConversationContext{
		AccountID:        account.ID,
		DisplayName:      account.DisplayName,
		PhoneNumber:      account.PhoneNumber,
		Language:         account.Language,
		ResponseLength:   account.ResponseLength,
		PreferredBackend: account.AIModel,
		Mode:             mode,
		Turns:            []Turn{},
	}
	if cc.Language == "" {
		cc.Language = defaultLanguage
	}
	if account.CustomGreeting != nil {
		cc.CustomGreeting = strings.TrimSpace(*account.CustomGreeting)
	}
	if account.CustomInstructions != nil {
		cc.CustomInstructions = strings.TrimSpace(*account.CustomInstructions)
	}

	if limit <= 0 {
		return cc, nil
	}

	conversations, err := a.history.History(ctx, account.ID, limit)
	if err != nil {
		a.logger.WarnWithError(ctx, "failed to load history, continuing without it", err)
		return cc, nil
	}

	cc.Turns, cc.History = renderHistory(conversations, a.maxChars)
	return cc, nil
}

// renderHistory takes conversations most recent first and renders them oldest
// first. When the text would exceed maxChars the oldest turns are dropped.
func renderHistory(conversations []store.Conversation, maxChars int) ([]Turn, string) {
	blocks := make([]string, 0, len(conversations))
	turns := make([]Turn, 0, len(conversations))
	total := 0

	for _, c := range conversations {
		turn := Turn{UserMessage: strings.TrimSpace(c.UserMessage), At: c.CreatedAt}
		if c.AIResponse != nil {
			turn.AIResponse = strings.TrimSpace(*c.AIResponse)
		}
		if turn.UserMessage == "" && turn.AIResponse == "" {
			continue
		}

		block := renderTurn(turn)
		if maxChars > 0 && total+len(block) > maxChars {
			if len(blocks) == 0 {
				blocks = append(blocks, truncateRunes(block, maxChars))
				turns = append(turns, turn)
			}
			break
		}
		blocks = append(blocks, block)
		turns = append(turns, turn)
		total += len(block)
	}

	// newest-first to oldest-first
	for i, j := 0, len(blocks)-1; i < j; i, j = i+1, j-1 {
		blocks[i], blocks[j] = blocks[j], blocks[i]
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, strings.Join(blocks, "")
}

func renderTurn(t Turn) string {
	var b strings.Builder
	if t.UserMessage != "" {
		b.WriteString("Caller: ")
		b.WriteString(t.UserMessage)
		b.WriteString("\n")
	}
	if t.AIResponse != "" {
		b.WriteString("Assistant: ")
		b.WriteString(t.AIResponse)
		b.WriteString("\n")
	}
	return b.String()
}

// truncateRunes cuts s to at most maxBytes bytes without splitting a rune.
func truncateRunes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := 0
	for i := range s {
		if i > maxBytes {
			break
		}
		cut = i
	}
	return s[:cut]
}
