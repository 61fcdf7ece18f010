package api

import (
	accountsHandler "callassist-server/internal/accounts/handler"
	aiHandler "callassist-server/internal/ai-capabilities/handler"
	authHandler "callassist-server/internal/auth/handler"
	conversationsHandler "callassist-server/internal/conversations/handler"
	billingHandler "callassist-server/internal/money/billing/handler"
	usageHandler "callassist-server/internal/usage/handler"
	voiceCallHandler "callassist-server/internal/voicecall/handler"
	voiceCallProcessor "callassist-server/internal/voicecall/processor"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatsSource reports call pipeline counters for the health endpoint
type StatsSource interface {
	Stats() voiceCallProcessor.Stats
}

type API struct {
	router               *gin.RouterGroup
	authHandler          authHandler.Handler
	accountsHandler      accountsHandler.Handler
	conversationsHandler conversationsHandler.Handler
	usageHandler         usageHandler.Handler
	aiHandler            aiHandler.Handler
	voiceCallHandler     voiceCallHandler.Handler
	billingHandler       billingHandler.Handler
	stats                StatsSource
}

func New(
	router *gin.RouterGroup,
	authHandler authHandler.Handler,
	accountsHandler accountsHandler.Handler,
	conversationsHandler conversationsHandler.Handler,
	usageHandler usageHandler.Handler,
	aiHandler aiHandler.Handler,
	voiceCallHandler voiceCallHandler.Handler,
	billingHandler billingHandler.Handler,
	stats StatsSource,
) API {
	return API{
		router:               router,
		authHandler:          authHandler,
		accountsHandler:      accountsHandler,
		conversationsHandler: conversationsHandler,
		usageHandler:         usageHandler,
		aiHandler:            aiHandler,
		voiceCallHandler:     voiceCallHandler,
		billingHandler:       billingHandler,
		stats:                stats,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api")

	// Telephony callbacks
	voiceGroup := apiGroup.Group("/voice")
	{
		voiceGroup.POST("/webhook", a.voiceCallHandler.HandleWebhook)
		voiceGroup.POST("/incoming", a.voiceCallHandler.TwilioSignatureMiddleware, a.voiceCallHandler.HandleIncoming)
		voiceGroup.POST("/recording", a.voiceCallHandler.TwilioSignatureMiddleware, a.voiceCallHandler.HandleRecording)
	}

	protectedGroup := apiGroup.Group("/protected", a.authHandler.HandleJWTMiddleware)
	{
		protectedGroup.GET("/usage", a.usageHandler.HandleGetUsage)
		protectedGroup.GET("/plan", a.usageHandler.HandleGetPlan)
		protectedGroup.GET("/conversations", a.conversationsHandler.HandleListConversations)
		protectedGroup.GET("/conversations/:conversation_id", a.conversationsHandler.HandleGetConversation)
		protectedGroup.GET("/preferences", a.accountsHandler.HandleGetPreferences)
		protectedGroup.PUT("/preferences", a.accountsHandler.HandleUpdatePreferences)
		protectedGroup.POST("/ai/preview", a.aiHandler.HandlePreview)
		protectedGroup.GET("/ai/backends", a.aiHandler.HandleListBackends)
	}

	apiGroup.POST("billing/webhook", a.billingHandler.HandleWebhook)
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		body := gin.H{"message": "ok"}
		if a.stats != nil {
			body["calls"] = a.stats.Stats()
		}
		c.JSON(http.StatusOK, body)
	})
}
