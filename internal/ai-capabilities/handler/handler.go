package handler

import (
	"errors"
	"net/http"

	accountsProcessor "callassist-server/internal/accounts/processor"
	"callassist-server/internal/ai-capabilities/processor"
	"callassist-server/internal/apierrors"
	"callassist-server/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	accounts     accountsProcessor.AccountProcessor
	assembler    processor.ContextAssembler
	generator    *processor.ResponseGenerator
	historyLimit int
	logger       *observability.Logger
}

func New(
	accounts accountsProcessor.AccountProcessor,
	assembler processor.ContextAssembler,
	generator *processor.ResponseGenerator,
	historyLimit int,
	logger *observability.Logger,
) Handler {
	return Handler{
		accounts:     accounts,
		assembler:    assembler,
		generator:    generator,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// PreviewRequest asks what the assistant would answer to message
type PreviewRequest struct {
	Message string `json:"message" binding:"required,min=1,max=2000"`
	Mode    string `json:"mode" binding:"omitempty,oneof=voice text"`
}

// PreviewResponse is the generated answer. Nothing is persisted or counted.
type PreviewResponse struct {
	Reply    string `json:"reply"`
	Backend  string `json:"backend"`
	Mode     string `json:"mode"`
	Degraded bool   `json:"degraded"`
}

// HandlePreview lets an account owner try their current preferences against
// their own history without placing a call.
func (h *Handler) HandlePreview(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.getAccountID(c)
	if !ok {
		return
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "account_id", Value: accountID.String()})

	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	account, err := h.accounts.GetAccount(ctx, accountID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	mode := processor.ParseMode(req.Mode)
	cc, err := h.assembler.Assemble(ctx, account, mode, h.historyLimit)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	reply, err := h.generator.Generate(ctx, req.Message, cc)
	if err != nil {
		if errors.Is(err, processor.ErrGenerationUnavailable) {
			apierrors.RespondWithError(c, apierrors.ServiceUnavailable(apierrors.CodeAIServiceError,
				"AI service is temporarily unavailable. Please try again later.", err))
			return
		}
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, PreviewResponse{
		Reply:    reply.Text,
		Backend:  reply.Backend,
		Mode:     string(mode),
		Degraded: reply.Degraded,
	})
}

// BackendsResponse lists the generation backends an account can pick as its ai_model
type BackendsResponse struct {
	Backends []string `json:"backends"`
	Default  string   `json:"default"`
}

func (h *Handler) HandleListBackends(c *gin.Context) {
	c.JSON(http.StatusOK, BackendsResponse{
		Backends: h.generator.Backends(),
		Default:  h.generator.DefaultBackend(),
	})
}

func (h *Handler) getAccountID(c *gin.Context) (uuid.UUID, bool) {
	accountIDStr, exists := c.Get("Account-ID")
	if !exists {
		apierrors.RespondWithError(c, apierrors.Unauthorized("Account ID not found in context"))
		return uuid.UUID{}, false
	}

	accountID, err := uuid.Parse(accountIDStr.(string))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid account ID format"))
		return uuid.UUID{}, false
	}
	return accountID, true
}
