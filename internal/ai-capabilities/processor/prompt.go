package processor

import (
	"fmt"
	"strings"
)

const behaviorPolicy = `Be warm, natural and concise. Acknowledge what the caller said, answer directly, and offer a next step when it helps.
Never invent details about the user's schedule, contacts or commitments. If you cannot help, say so briefly and offer to note it for later.`

// BuildSystemPrompt renders the instruction sent ahead of the caller's message.
func BuildSystemPrompt(cc ConversationContext, wordLimit int) string {
	var b strings.Builder

	name := cc.DisplayName
	if name == "" {
		name = "the user"
	}
	fmt.Fprintf(&b, "You are the personal phone assistant of %s", name)
	if cc.PhoneNumber != "" {
		fmt.Fprintf(&b, ", reachable at %s", cc.PhoneNumber)
	}
	b.WriteString(".\n")

	if cc.Mode == ModeText {
		b.WriteString("You are replying in a text message. Plain sentences, no markdown.\n")
	} else {
		b.WriteString("Your reply will be spoken to the caller. Use plain spoken sentences with no lists, markdown, links or emojis.\n")
	}
	fmt.Fprintf(&b, "Keep the reply under %d words.\n", wordLimit)
	fmt.Fprintf(&b, "Reply in the language with code %s.\n", cc.Language)
	b.WriteString(behaviorPolicy)
	b.WriteString("\n")

	if cc.CustomGreeting != "" {
		fmt.Fprintf(&b, "\nPreferred greeting: %s\n", cc.CustomGreeting)
	}
	if cc.CustomInstructions != "" {
		fmt.Fprintf(&b, "\nStanding instructions from the user:\n%s\n", cc.CustomInstructions)
	}

	if cc.History != "" {
		b.WriteString("\nRecent conversation, oldest first:\n")
		b.WriteString(cc.History)
	} else {
		b.WriteString("\nThere is no earlier conversation with this user.\n")
	}
	return b.String()
}
