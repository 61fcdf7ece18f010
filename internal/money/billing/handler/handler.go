package handler

import (
	"callassist-server/internal/apierrors"
	"callassist-server/internal/money/billing/processor"
	"callassist-server/internal/observability"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxWebhookBytes bounds the Stripe payload read into memory
const maxWebhookBytes = 65536

type Handler struct {
	processor processor.BillingProcessor
	logger    *observability.Logger
}

func New(processor processor.BillingProcessor, logger *observability.Logger) Handler {
	return Handler{processor: processor, logger: logger}
}

func (h *Handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Failed to read request body"))
		return
	}

	signatureHeader := c.GetHeader("Stripe-Signature")
	if signatureHeader == "" {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidSignature, "Missing Stripe-Signature header"))
		return
	}

	event, err := h.processor.ConstructEvent(payload, signatureHeader)
	if err != nil {
		h.logger.WarnWithError(ctx, "rejected stripe webhook", err)
		apierrors.RespondWithError(c, err)
		return
	}

	if err := h.processor.HandleWebhook(ctx, event); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "success"})
}
