package handler

import (
	"callassist-server/internal/apierrors"
	"callassist-server/internal/observability"
	"callassist-server/internal/ratelimit"
	"callassist-server/internal/store"
	"callassist-server/internal/voicecall/processor"
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultGreeting is spoken to callers whose account has no custom greeting
const DefaultGreeting = "Hi, you've reached your assistant. Please leave your message after the beep."

// RateLimitedReply is spoken to a caller who called too often in the window
const RateLimitedReply = "You've called several times in a short while. Please try again in a few minutes."

// Rate limit scopes. A call that goes through incoming and recording counts
// once in each.
const (
	scopeIncoming = "incoming"
	scopeCall     = "call"
)

// CallPipeline answers a finished call
type CallPipeline interface {
	HandleCall(ctx context.Context, event processor.WebhookEvent) (processor.Reply, error)
}

// AccountResolver looks up the caller's account for the greeting
type AccountResolver interface {
	Resolve(ctx context.Context, phoneNumber string) (store.Account, error)
}

// SignatureValidator verifies X-Twilio-Signature
type SignatureValidator interface {
	ValidateRequest(fullURL string, params map[string]string, signature string) bool
}

// CallerLimiter counts calls per caller key over a sliding window
type CallerLimiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Result, error)
}

type Handler struct {
	pipeline      CallPipeline
	accounts      AccountResolver
	validator     SignatureValidator
	limiter       CallerLimiter
	publicBaseURL string
	logger        *observability.Logger
}

// New creates the voice handler. A nil validator disables signature checks and
// a nil limiter disables per-caller rate limiting.
func New(pipeline CallPipeline, accounts AccountResolver, validator SignatureValidator, limiter CallerLimiter, publicBaseURL string, logger *observability.Logger) Handler {
	return Handler{
		pipeline:      pipeline,
		accounts:      accounts,
		validator:     validator,
		limiter:       limiter,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// WebhookRequest accepts both the JSON reply contract and Twilio's form fields
type WebhookRequest struct {
	CallID       string `json:"callId" form:"CallSid"`
	From         string `json:"from" form:"From"`
	To           string `json:"to" form:"To"`
	RecordingURL string `json:"recordingUrl" form:"RecordingUrl"`
	Duration     int    `json:"duration" form:"RecordingDuration"`
	Status       string `json:"status" form:"CallStatus"`
	Transcript   string `json:"transcript" form:"TranscriptionText"`
}

func (r WebhookRequest) event() processor.WebhookEvent {
	return processor.WebhookEvent{
		CallID:          r.CallID,
		From:            r.From,
		To:              r.To,
		RecordingURL:    r.RecordingURL,
		DurationSeconds: r.Duration,
		Status:          r.Status,
		Transcript:      r.Transcript,
	}
}

// HandleWebhook runs the pipeline and answers with the JSON reply. Once the
// event is valid the status is 200 so the responder always has text to speak.
// A rate limited caller gets 429 with a reply to speak.
func (h *Handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	var req WebhookRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.InfoWithError(ctx, "failed to bind call webhook", err)
		c.JSON(http.StatusBadRequest, processor.Reply{
			Success:    false,
			AIResponse: processor.DefaultFallbackReply,
			Error:      "Invalid request body",
		})
		return
	}

	if !h.allowCaller(c, scopeCall, req.From) {
		c.JSON(http.StatusTooManyRequests, processor.Reply{
			Success:    false,
			Caller:     req.From,
			AIResponse: RateLimitedReply,
			CallID:     req.CallID,
			Error:      "Too many calls",
		})
		return
	}

	reply, err := h.pipeline.HandleCall(ctx, req.event())
	c.JSON(statusFor(err), reply)
}

// allowCaller counts a call from the caller's number in scope and reports
// whether it is within the limit. Requests without a number and failed checks
// are let through. Form routes reach it only after the signature check.
func (h *Handler) allowCaller(c *gin.Context, scope, from string) bool {
	if h.limiter == nil || from == "" {
		return true
	}
	ctx := c.Request.Context()

	result, err := h.limiter.Allow(ctx, scope+":"+from)
	if err != nil {
		h.logger.WarnWithError(ctx, "rate limit check failed, allowing call", err)
		return true
	}
	if result.Allowed {
		return true
	}

	c.Header("Retry-After", strconv.Itoa(int(math.Ceil(result.RetryAfter.Seconds()))))
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "rate_limit_scope", Value: scope},
		observability.Field{Key: "retry_after_ms", Value: result.RetryAfter.Milliseconds()},
	)
	h.logger.Warn(ctx, "caller rate limited")
	return false
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, processor.ErrInvalidEvent):
		return http.StatusBadRequest
	case errors.Is(err, processor.ErrShuttingDown):
		return http.StatusServiceUnavailable
	default:
		return http.StatusOK
	}
}

// TwilioSignatureMiddleware rejects form webhooks whose signature does not
// match the public URL they were sent to.
func (h *Handler) TwilioSignatureMiddleware(c *gin.Context) {
	if h.validator == nil {
		c.Next()
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid form body"))
		return
	}
	params := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	fullURL := h.publicBaseURL + c.Request.URL.RequestURI()
	if !h.validator.ValidateRequest(fullURL, params, c.GetHeader("X-Twilio-Signature")) {
		h.logger.Warn(c.Request.Context(), "rejected webhook with invalid twilio signature")
		apierrors.RespondWithError(c, apierrors.Forbidden(apierrors.CodeInvalidSignature, "Invalid request signature"))
		return
	}
	c.Next()
}
