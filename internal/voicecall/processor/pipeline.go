package processor

import (
	accountsProcessor "callassist-server/internal/accounts/processor"
	aiProcessor "callassist-server/internal/ai-capabilities/processor"
	"callassist-server/internal/clients/kafka"
	conversationsProcessor "callassist-server/internal/conversations/processor"
	"callassist-server/internal/observability"
	"callassist-server/internal/store"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stage is a step of the call pipeline. It is attached to every log entry.
type Stage string

const (
	StageReceived     Stage = "received"
	StageResolving    Stage = "resolving"
	StageTranscribing Stage = "transcribing"
	StageGenerating   Stage = "generating"
	StagePersisting   Stage = "persisting"
	StageResponding   Stage = "responding"
)

// Failure reasons stored on the conversation
const (
	failureTranscription = "transcription failed"
	failureGeneration    = "generation failed"
)

// call is the state of one pipeline run
type call struct {
	event          WebhookEvent
	account        store.Account
	conversationID uuid.UUID
	userMessage    string
	aiResponse     string
	backend        string
	degraded       bool
	durations      conversationsProcessor.Durations
	started        time.Time

	// set when the call fails after the quota check
	failureReason string
	cause         error
}

func (c *call) fail(reason string, cause error, reply string) {
	c.failureReason = reason
	c.cause = cause
	c.aiResponse = reply
}

func (c *call) failed() bool {
	return c.cause != nil
}

// HandleCall runs the pipeline for a telephony event and returns the reply to
// send back. The reply is always usable. A non-nil error tells why the call was
// not answered normally: ErrInvalidEvent and ErrCallNotCompleted before the
// pipeline starts, ErrShuttingDown when no new calls are accepted,
// conversations ErrDuplicateCall for a redelivered call, and the resolver,
// quota, transcription or generation error otherwise.
func (p *VoiceCallProcessor) HandleCall(ctx context.Context, event WebhookEvent) (Reply, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_sid", Value: event.CallID},
		observability.Field{Key: "stage", Value: string(StageReceived)},
	)

	if err := event.Validate(); err != nil {
		p.logger.InfoWithError(ctx, "rejected call event", err)
		return failureReply(event, "Invalid call event", p.options.FallbackReply), err
	}
	if !strings.EqualFold(event.Status, CallStatusCompleted) {
		p.logger.Info(ctx, fmt.Sprintf("ignoring call with status %q", event.Status))
		return Reply{Success: false, Caller: event.From, CallID: event.CallID, Error: "Call not completed"}, ErrCallNotCompleted
	}
	if !p.begin() {
		p.logger.Warn(ctx, "call received during shutdown")
		return failureReply(event, "Service unavailable", p.options.FallbackReply), ErrShuttingDown
	}

	ctx, cancel := p.detach(ctx)
	defer cancel()

	c := &call{event: event, started: p.now()}
	reply, o, err := p.run(ctx, c)
	p.end(o)
	return reply, err
}

// detach returns a context that ignores the caller's cancellation but ends
// with the processor's lifetime.
func (p *VoiceCallProcessor) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	detached, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(p.lifetime, cancel)
	return detached, func() {
		stop()
		cancel()
	}
}

func (p *VoiceCallProcessor) run(ctx context.Context, c *call) (Reply, outcome, error) {
	ctx = p.enter(ctx, StageResolving)
	account, err := p.resolver.Resolve(ctx, c.event.From)
	if err != nil {
		if errors.Is(err, accountsProcessor.ErrUserNotFound) || errors.Is(err, accountsProcessor.ErrInvalidPhoneNumber) {
			p.logger.InfoWithError(ctx, "caller has no account", err)
			return failureReply(c.event, "User not found", p.options.FallbackReply), outcomeRejected, err
		}
		p.logger.Error(ctx, "failed to resolve caller", err)
		return failureReply(c.event, "Account lookup failed", p.options.FallbackReply), outcomeFailed, err
	}
	c.account = account
	ctx = observability.WithFields(ctx, observability.Field{Key: "account_id", Value: account.ID.String()})

	decision, err := p.usage.CheckQuota(ctx, account.ID)
	if err != nil {
		p.logger.WarnWithError(ctx, "quota check failed, accepting call", err)
	} else if !decision.Allowed {
		return failureReply(c.event, decision.Reason, p.options.QuotaReply), outcomeRejected, decision.Err()
	}

	conversationID, err := p.conversations.Create(ctx, conversationsProcessor.Draft{
		AccountID:       account.ID,
		PhoneNumber:     c.event.From,
		CallSID:         c.event.CallID,
		AudioURL:        c.event.RecordingURL,
		DurationSeconds: c.event.DurationSeconds,
	})
	if errors.Is(err, conversationsProcessor.ErrDuplicateCall) {
		return p.replay(ctx, c)
	}
	if err != nil {
		p.logger.WarnWithError(ctx, "continuing without a conversation record", err)
	} else {
		c.conversationID = conversationID
		ctx = observability.WithFields(ctx, observability.Field{Key: "conversation_id", Value: conversationID.String()})
	}

	ctx = p.enter(ctx, StageTranscribing)
	transcriptionStart := p.now()
	text, err := p.transcribe(ctx, c.event)
	c.durations.Transcription = p.now().Sub(transcriptionStart)
	if err != nil {
		p.logger.Error(ctx, "failed to transcribe call", err)
		c.fail(failureTranscription, err, p.options.TranscriptionReply)
	} else {
		c.userMessage = text
		ctx = p.enter(ctx, StageGenerating)
		p.generate(ctx, c)
	}

	ctx = p.enter(ctx, StagePersisting)
	c.durations.Total = p.now().Sub(c.started)
	p.persist(ctx, c)

	ctx = p.enter(ctx, StageResponding)
	p.publish(ctx, c)
	return p.respond(ctx, c)
}

// replay answers a redelivered call from its stored conversation. Nothing is
// generated and usage is not counted again.
func (p *VoiceCallProcessor) replay(ctx context.Context, c *call) (Reply, outcome, error) {
	conversation, err := p.conversations.ForCall(ctx, c.account.ID, c.event.CallID)
	if err != nil {
		p.logger.WarnWithError(ctx, "failed to load stored reply for duplicate call", err)
	} else if conversation.Status == store.ConversationStatusCompleted && conversation.AIResponse != nil && *conversation.AIResponse != "" {
		p.logger.Info(ctx, "answered duplicate call with stored reply")
		return Reply{
			Success:    true,
			Caller:     c.event.From,
			AIResponse: *conversation.AIResponse,
			CallID:     c.event.CallID,
		}, outcomeRejected, conversationsProcessor.ErrDuplicateCall
	}

	p.logger.Info(ctx, "answered duplicate call with fallback")
	return failureReply(c.event, "Duplicate call", p.options.FallbackReply), outcomeRejected, conversationsProcessor.ErrDuplicateCall
}

func (p *VoiceCallProcessor) transcribe(ctx context.Context, event WebhookEvent) (string, error) {
	if text := strings.TrimSpace(event.Transcript); text != "" {
		return text, nil
	}
	if strings.TrimSpace(event.RecordingURL) == "" {
		return "", fmt.Errorf("%w: no recording", ErrTranscriptionFailed)
	}
	if p.transcriber == nil {
		return "", fmt.Errorf("%w: speech to text not configured", ErrTranscriptionFailed)
	}

	tctx, cancel := context.WithTimeout(ctx, p.options.TranscriptionTimeout)
	defer cancel()

	text, err := p.transcriber.Transcribe(tctx, event.RecordingURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscriptionFailed, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty transcript", ErrTranscriptionFailed)
	}
	return text, nil
}

func (p *VoiceCallProcessor) generate(ctx context.Context, c *call) {
	cc, err := p.assembler.Assemble(ctx, c.account, aiProcessor.ModeVoice, p.options.HistoryLimit)
	if err != nil {
		p.logger.WarnWithError(ctx, "failed to assemble context, using preferences only", err)
		cc = aiProcessor.ConversationContext{
			AccountID:      c.account.ID,
			DisplayName:    c.account.DisplayName,
			PhoneNumber:    c.account.PhoneNumber,
			Language:       c.account.Language,
			ResponseLength: c.account.ResponseLength,
			Mode:           aiProcessor.ModeVoice,
		}
	}

	generationStart := p.now()
	reply, err := p.generator.Generate(ctx, c.userMessage, cc)
	c.durations.Generation = p.now().Sub(generationStart)
	if err != nil {
		c.fail(failureGeneration, err, p.options.ApologyReply)
		var genErr *aiProcessor.GenerationError
		if errors.As(err, &genErr) {
			c.backend = genErr.Backend
		}
		return
	}
	c.aiResponse = reply.Text
	c.backend = reply.Backend
	c.degraded = reply.Degraded
}

// persist finalizes the conversation and then records usage. Both run on a
// context that survives cancellation of the call so a cancelled call is still
// marked failed and counted.
func (p *VoiceCallProcessor) persist(ctx context.Context, c *call) {
	persistCtx := context.WithoutCancel(ctx)

	if c.conversationID != uuid.Nil {
		exchange := conversationsProcessor.Exchange{
			UserMessage: c.userMessage,
			AIResponse:  c.aiResponse,
			Durations:   c.durations,
		}
		var err error
		if c.failed() {
			err = p.conversations.Fail(persistCtx, c.conversationID, c.failureReason, exchange)
		} else {
			err = p.conversations.Complete(persistCtx, c.conversationID, exchange)
		}
		if err != nil {
			p.logger.Error(ctx, "failed to finalize conversation", err)
		}
	}

	usageCtx, cancel := context.WithTimeout(persistCtx, p.options.PersistenceTimeout)
	defer cancel()
	if _, err := p.usage.RecordUsage(usageCtx, c.account.ID, c.event.DurationSeconds); err != nil {
		p.logger.Error(ctx, "failed to record usage", err)
	}
}

func (p *VoiceCallProcessor) publish(ctx context.Context, c *call) {
	if p.events == nil {
		return
	}

	eventType := kafka.EventTypeCallCompleted
	if c.failed() {
		eventType = kafka.EventTypeCallFailed
	}
	data := map[string]interface{}{
		"call_sid":         c.event.CallID,
		"caller":           c.event.From,
		"duration_seconds": c.event.DurationSeconds,
		"backend":          c.backend,
		"degraded":         c.degraded,
		"transcription_ms": c.durations.Transcription.Milliseconds(),
		"generation_ms":    c.durations.Generation.Milliseconds(),
		"total_ms":         c.durations.Total.Milliseconds(),
	}
	if c.conversationID != uuid.Nil {
		data["conversation_id"] = c.conversationID.String()
	}
	if c.failed() {
		data["failure_reason"] = c.failureReason
	}
	event := kafka.EventMessage{
		ID:        uuid.NewString(),
		Type:      eventType,
		AccountID: c.account.ID.String(),
		Data:      data,
		Timestamp: p.now().UTC().Format(time.RFC3339),
	}

	publishCtx := context.WithoutCancel(ctx)
	p.track(func() {
		ctx, cancel := context.WithTimeout(publishCtx, p.options.EventTimeout)
		defer cancel()
		if err := p.events.PublishEvent(ctx, event); err != nil {
			p.logger.WarnWithError(ctx, "failed to publish call event", err)
		}
	})
}

func (p *VoiceCallProcessor) respond(ctx context.Context, c *call) (Reply, outcome, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "backend", Value: c.backend},
		observability.Field{Key: "degraded", Value: c.degraded},
		observability.Field{Key: "total_ms", Value: c.durations.Total.Milliseconds()},
	)
	p.logger.Metrics(ctx,
		observability.MetricField{Key: "transcription_ms", Value: c.durations.Transcription.Milliseconds()},
		observability.MetricField{Key: "generation_ms", Value: c.durations.Generation.Milliseconds()},
		observability.MetricField{Key: "total_ms", Value: c.durations.Total.Milliseconds()},
	)

	if c.failed() {
		p.logger.WarnWithError(ctx, "call answered with fallback", c.cause)
		reason := "Transcription failed"
		if c.failureReason == failureGeneration {
			reason = "Generation failed"
		}
		return failureReply(c.event, reason, c.aiResponse), outcomeFailed, c.cause
	}

	p.logger.Info(ctx, "call answered")
	return Reply{
		Success:    true,
		Caller:     c.event.From,
		AIResponse: c.aiResponse,
		CallID:     c.event.CallID,
	}, outcomeAnswered, nil
}

func (p *VoiceCallProcessor) enter(ctx context.Context, stage Stage) context.Context {
	ctx = observability.WithFields(ctx, observability.Field{Key: "stage", Value: string(stage)})
	p.logger.Debug(ctx, "entering stage")
	return ctx
}
