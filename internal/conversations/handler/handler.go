package handler

import (
	"net/http"
	"strconv"

	"callassist-server/internal/apierrors"
	"callassist-server/internal/conversations/processor"
	"callassist-server/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor processor.ConversationProcessor
	logger    *observability.Logger
}

func New(processor processor.ConversationProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// HandleListConversations pages through the account's calls, newest first.
// Query parameters: limit (default 20, max 100) and offset.
func (h *Handler) HandleListConversations(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.getAccountID(c)
	if !ok {
		return
	}

	limit, err := queryInt(c, "limit", processor.DefaultListLimit)
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "limit must be a number"))
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "offset must be a number"))
		return
	}

	conversations, err := h.processor.List(ctx, accountID, limit, offset)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": conversations,
		"limit":         limit,
		"offset":        offset,
	})
}

// HandleGetConversation returns one conversation owned by the account
func (h *Handler) HandleGetConversation(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.getAccountID(c)
	if !ok {
		return
	}

	conversationID, err := uuid.Parse(c.Param("conversation_id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid conversation ID format"))
		return
	}

	conversation, err := h.processor.Get(ctx, accountID, conversationID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, conversation)
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
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
