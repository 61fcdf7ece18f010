package handler

import (
	"net/http"

	"callassist-server/internal/apierrors"
	"callassist-server/internal/observability"
	"callassist-server/internal/usage/processor"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor processor.UsageProcessor
	logger    *observability.Logger
}

func New(processor processor.UsageProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// HandleGetUsage returns lifetime and current-month usage with the remaining allowance
func (h *Handler) HandleGetUsage(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.getAccountID(c)
	if !ok {
		return
	}

	summary, err := h.processor.GetSummary(ctx, accountID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// HandleGetPlan returns the plan in force and whether the next call would be accepted
func (h *Handler) HandleGetPlan(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.getAccountID(c)
	if !ok {
		return
	}

	decision, err := h.processor.QuotaStatus(ctx, accountID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plan":          decision.Plan,
		"can_take_call": decision.Allowed,
		"reason":        decision.Reason,
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
