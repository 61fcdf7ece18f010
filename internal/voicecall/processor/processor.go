package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=processor.go -destination=mocks_test.go -package=processor

import (
	aiProcessor "callassist-server/internal/ai-capabilities/processor"
	"callassist-server/internal/clients/kafka"
	conversationsProcessor "callassist-server/internal/conversations/processor"
	"callassist-server/internal/observability"
	"callassist-server/internal/store"
	usageProcessor "callassist-server/internal/usage/processor"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AccountResolver maps a caller's phone number to their account
type AccountResolver interface {
	Resolve(ctx context.Context, phoneNumber string) (store.Account, error)
}

// Transcriber turns a call recording into text
type Transcriber interface {
	Transcribe(ctx context.Context, recordingURL string) (string, error)
}

// ContextAssembler builds the generation context for an account
type ContextAssembler interface {
	Assemble(ctx context.Context, account store.Account, mode aiProcessor.Mode, limit int) (aiProcessor.ConversationContext, error)
}

// ResponseGenerator produces the assistant's reply
type ResponseGenerator interface {
	Generate(ctx context.Context, userMessage string, cc aiProcessor.ConversationContext) (aiProcessor.Reply, error)
}

// ConversationRecorder persists the lifecycle of one call
type ConversationRecorder interface {
	Create(ctx context.Context, draft conversationsProcessor.Draft) (uuid.UUID, error)
	Complete(ctx context.Context, conversationID uuid.UUID, exchange conversationsProcessor.Exchange) error
	Fail(ctx context.Context, conversationID uuid.UUID, reason string, exchange conversationsProcessor.Exchange) error
	ForCall(ctx context.Context, accountID uuid.UUID, callSID string) (store.Conversation, error)
}

// UsageAccountant enforces plan quotas and counts usage
type UsageAccountant interface {
	CheckQuota(ctx context.Context, accountID uuid.UUID) (usageProcessor.QuotaDecision, error)
	RecordUsage(ctx context.Context, accountID uuid.UUID, durationSeconds int) (store.UsageStats, error)
}

// EventPublisher streams call outcomes to downstream consumers
type EventPublisher interface {
	PublishEvent(ctx context.Context, event kafka.EventMessage) error
}

var (
	ErrInvalidEvent        = errors.New("invalid call event")
	ErrCallNotCompleted    = errors.New("call not completed")
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrShuttingDown        = errors.New("call pipeline shutting down")
)

// Default caller-facing texts
const (
	DefaultFallbackReply      = "Sorry, I couldn't process your call right now. Please try again in a moment."
	DefaultTranscriptionReply = "Sorry, I couldn't make out your message. Please try calling again."
	DefaultApologyReply       = "Sorry, I'm having trouble answering right now. I've noted your call and will get back to you soon."
	DefaultQuotaReply         = "You've reached your plan's limit for this month, so I can't take this call. Please upgrade your plan or call again next month."
)

// Options tunes the pipeline. Zero values fall back to defaults.
type Options struct {
	HistoryLimit         int
	TranscriptionTimeout time.Duration
	PersistenceTimeout   time.Duration
	EventTimeout         time.Duration
	FallbackReply        string
	TranscriptionReply   string
	ApologyReply         string
	QuotaReply           string
}

func (o Options) withDefaults() Options {
	if o.HistoryLimit < 0 {
		o.HistoryLimit = 0
	}
	if o.TranscriptionTimeout <= 0 {
		o.TranscriptionTimeout = 30 * time.Second
	}
	if o.PersistenceTimeout <= 0 {
		o.PersistenceTimeout = 5 * time.Second
	}
	if o.EventTimeout <= 0 {
		o.EventTimeout = 5 * time.Second
	}
	if o.FallbackReply == "" {
		o.FallbackReply = DefaultFallbackReply
	}
	if o.TranscriptionReply == "" {
		o.TranscriptionReply = DefaultTranscriptionReply
	}
	if o.ApologyReply == "" {
		o.ApologyReply = DefaultApologyReply
	}
	if o.QuotaReply == "" {
		o.QuotaReply = DefaultQuotaReply
	}
	return o
}

// Stats counts calls handled since start
type Stats struct {
	Received int64 `json:"received"`
	Answered int64 `json:"answered"`
	Failed   int64 `json:"failed"`
	Rejected int64 `json:"rejected"`
	InFlight int64 `json:"in_flight"`
}

// VoiceCallProcessor runs the inbound call pipeline. Calls run on a context
// detached from the request, so a caller hanging up does not abort the
// pipeline, but bound to the processor's lifetime for shutdown.
type VoiceCallProcessor struct {
	resolver      AccountResolver
	transcriber   Transcriber
	assembler     ContextAssembler
	generator     ResponseGenerator
	conversations ConversationRecorder
	usage         UsageAccountant
	events        EventPublisher
	options       Options
	logger        *observability.Logger
	now           func() time.Time

	lifetime context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	mu      sync.Mutex
	closing bool
	stats   Stats
}

// New creates a VoiceCallProcessor. events may be nil to disable publishing and
// transcriber may be nil when only provider transcripts are accepted.
func New(
	resolver AccountResolver,
	transcriber Transcriber,
	assembler ContextAssembler,
	generator ResponseGenerator,
	conversations ConversationRecorder,
	usage UsageAccountant,
	events EventPublisher,
	options Options,
	logger *observability.Logger,
) *VoiceCallProcessor {
	lifetime, cancel := context.WithCancel(context.Background())
	return &VoiceCallProcessor{
		resolver:      resolver,
		transcriber:   transcriber,
		assembler:     assembler,
		generator:     generator,
		conversations: conversations,
		usage:         usage,
		events:        events,
		options:       options.withDefaults(),
		logger:        logger,
		now:           time.Now,
		lifetime:      lifetime,
		cancel:        cancel,
	}
}

// Stats returns a snapshot of the call counters
func (p *VoiceCallProcessor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Shutdown stops accepting calls and waits for in-flight calls to answer.
// When ctx expires first the remaining calls are cancelled; they still mark
// their conversations failed before returning.
func (p *VoiceCallProcessor) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closing = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "shutdown deadline reached, cancelling in-flight calls")
		p.cancel()
		<-done
		return ctx.Err()
	}
}

// begin registers a call. It returns false once Shutdown has started.
func (p *VoiceCallProcessor) begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closing {
		return false
	}
	p.wg.Add(1)
	p.stats.Received++
	p.stats.InFlight++
	return true
}

type outcome int

const (
	outcomeAnswered outcome = iota
	outcomeFailed
	outcomeRejected
)

func (p *VoiceCallProcessor) end(o outcome) {
	p.mu.Lock()
	p.stats.InFlight--
	switch o {
	case outcomeAnswered:
		p.stats.Answered++
	case outcomeFailed:
		p.stats.Failed++
	case outcomeRejected:
		p.stats.Rejected++
	}
	p.mu.Unlock()
	p.wg.Done()
}

// track runs fn as background work that Shutdown waits for
func (p *VoiceCallProcessor) track(fn func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		fn()
	}()
}
