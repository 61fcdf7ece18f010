package handler

import (
	"callassist-server/internal/observability"
	"callassist-server/internal/voicecall/processor"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/twiml"
)

const (
	recordingPath      = "/api/voice/recording"
	maxRecordingLength = "120"
	silenceTimeout     = "5"
)

// HandleIncoming greets the caller and records their message. The recording is
// posted to the recording route when the caller stops talking.
func (h *Handler) HandleIncoming(c *gin.Context) {
	ctx := c.Request.Context()

	from := c.PostForm("From")
	if !h.allowCaller(c, scopeIncoming, from) {
		h.respondTwiML(c, &twiml.VoiceSay{Message: RateLimitedReply}, &twiml.VoiceHangup{})
		return
	}

	greeting := DefaultGreeting
	language := ""
	if from != "" && h.accounts != nil {
		account, err := h.accounts.Resolve(ctx, from)
		if err != nil {
			h.logger.InfoWithError(ctx, "using default greeting", err)
		} else {
			ctx = observability.WithFields(ctx, observability.Field{Key: "account_id", Value: account.ID.String()})
			if account.CustomGreeting != nil && *account.CustomGreeting != "" {
				greeting = *account.CustomGreeting
			}
			language = account.Language
		}
	}

	say := &twiml.VoiceSay{
		Message:  greeting,
		Language: language,
	}
	record := &twiml.VoiceRecord{
		Action:    h.publicBaseURL + recordingPath,
		Method:    http.MethodPost,
		MaxLength: maxRecordingLength,
		Timeout:   silenceTimeout,
		PlayBeep:  "true",
	}
	h.respondTwiML(c, say, record)
}

// HandleRecording runs the pipeline for a finished recording and speaks the
// reply. A recording callback arrives while the call is still live, so a
// present recording counts as a completed call.
func (h *Handler) HandleRecording(c *gin.Context) {
	ctx := c.Request.Context()

	var req WebhookRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.InfoWithError(ctx, "failed to bind recording callback", err)
		h.respondTwiML(c, &twiml.VoiceSay{Message: processor.DefaultFallbackReply}, &twiml.VoiceHangup{})
		return
	}

	if !h.allowCaller(c, scopeCall, req.From) {
		h.respondTwiML(c, &twiml.VoiceSay{Message: RateLimitedReply}, &twiml.VoiceHangup{})
		return
	}

	event := req.event()
	if event.RecordingURL != "" || event.Transcript != "" {
		event.Status = processor.CallStatusCompleted
	}

	reply, err := h.pipeline.HandleCall(ctx, event)
	if err != nil {
		h.logger.InfoWithError(ctx, "answered recording without assistant reply", err)
	}

	text := reply.AIResponse
	if text == "" {
		text = processor.DefaultFallbackReply
	}
	h.respondTwiML(c, &twiml.VoiceSay{Message: text}, &twiml.VoiceHangup{})
}

func (h *Handler) respondTwiML(c *gin.Context, elements ...twiml.Element) {
	result, err := twiml.Voice(elements)
	if err != nil {
		h.logger.Error(c.Request.Context(), "failed to render twiml", err)
		c.String(http.StatusInternalServerError, "")
		return
	}
	c.Header("Content-Type", "text/xml")
	c.String(http.StatusOK, result)
}
