package handler

import (
	"net/http"
	"strings"

	"callassist-server/internal/auth/processor"
	"callassist-server/internal/observability"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authProcessor processor.AuthProcessor
	logger        *observability.Logger
}

func New(authProcessor processor.AuthProcessor, logger *observability.Logger) Handler {
	return Handler{
		authProcessor: authProcessor,
		logger:        logger,
	}
}

// HandleJWTMiddleware verifies the bearer token and stores the account id
// under "Account-ID" for the protected handlers.
func (h *Handler) HandleJWTMiddleware(c *gin.Context) {
	ctx := c.Request.Context()
	tokenHeader := c.GetHeader("Authorization")

	if tokenHeader == "" || !strings.HasPrefix(tokenHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is missing or invalid"})
		return
	}

	tokenString := strings.TrimPrefix(tokenHeader, "Bearer ")
	claims, err := h.authProcessor.ValidateJWTToken(ctx, tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	sub, err := claims.GetSubject()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "account_id", Value: sub})
	c.Request = c.Request.WithContext(ctx)
	c.Set("Account-ID", sub)
	c.Next()
}
