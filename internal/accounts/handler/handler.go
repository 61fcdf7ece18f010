package handler

import (
	"net/http"

	"callassist-server/internal/accounts/processor"
	"callassist-server/internal/apierrors"
	"callassist-server/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor processor.AccountProcessor
	logger    *observability.Logger
}

func New(processor processor.AccountProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// UpdatePreferencesRequest represents a partial preferences update. Omitted
// fields are left unchanged.
type UpdatePreferencesRequest struct {
	DisplayName        *string `json:"display_name" binding:"omitempty,min=1,max=100"`
	AIModel            *string `json:"ai_model" binding:"omitempty,max=50"`
	Voice              *string `json:"voice" binding:"omitempty,max=50"`
	ResponseLength     *string `json:"response_length" binding:"omitempty,oneof=short medium long"`
	Language           *string `json:"language" binding:"omitempty,min=2,max=10"`
	CustomGreeting     *string `json:"custom_greeting" binding:"omitempty,max=500"`
	CustomInstructions *string `json:"custom_instructions" binding:"omitempty,max=2000"`
}

// HandleGetPreferences returns the caller's account and assistant preferences
func (h *Handler) HandleGetPreferences(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.getAccountID(c)
	if !ok {
		return
	}

	account, err := h.processor.GetAccount(ctx, accountID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// HandleUpdatePreferences applies a partial preferences update
func (h *Handler) HandleUpdatePreferences(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.getAccountID(c)
	if !ok {
		return
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	account, err := h.processor.UpdatePreferences(ctx, accountID, processor.UpdatePreferencesRequest{
		DisplayName:        req.DisplayName,
		AIModel:            req.AIModel,
		Voice:              req.Voice,
		ResponseLength:     req.ResponseLength,
		Language:           req.Language,
		CustomGreeting:     req.CustomGreeting,
		CustomInstructions: req.CustomInstructions,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	h.logger.Info(observability.WithFields(ctx, observability.Field{Key: "account_id", Value: accountID.String()}), "preferences updated")
	c.JSON(http.StatusOK, account)
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
