package processor

import (
	"fmt"
	"strings"
)

// CallStatusCompleted is the only telephony status that runs the pipeline
const CallStatusCompleted = "completed"

// WebhookEvent is a telephony notification about a finished call
type WebhookEvent struct {
	CallID          string
	From            string
	To              string
	RecordingURL    string
	DurationSeconds int
	Status          string
	// Transcript is set when the provider already transcribed the recording.
	Transcript string
}

// Validate rejects events that cannot be attributed to a call and caller.
func (e WebhookEvent) Validate() error {
	var missing []string
	if strings.TrimSpace(e.CallID) == "" {
		missing = append(missing, "callId")
	}
	if strings.TrimSpace(e.From) == "" {
		missing = append(missing, "from")
	}
	if strings.TrimSpace(e.Status) == "" {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidEvent, strings.Join(missing, ", "))
	}
	if e.DurationSeconds < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidEvent)
	}
	return nil
}

// Reply is returned to the telephony responder. AIResponse is always safe to
// speak to the caller, including when Success is false.
type Reply struct {
	Success    bool   `json:"success"`
	Caller     string `json:"caller,omitempty"`
	AIResponse string `json:"aiResponse"`
	CallID     string `json:"callId,omitempty"`
	Error      string `json:"error,omitempty"`
}

func failureReply(event WebhookEvent, reason, text string) Reply {
	return Reply{
		Success:    false,
		Caller:     event.From,
		AIResponse: text,
		CallID:     event.CallID,
		Error:      reason,
	}
}
