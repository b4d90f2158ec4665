package events

// KindAssistantMessage identifies an accepted assistant reply.
const KindAssistantMessage Kind = "assistant.message"

// AssistantMessage carries a reply generated for the current turn. It is
// emitted even when the reply text duplicates the previous one and is
// skipped from history.
type AssistantMessage struct {
	Base
	Text string
}

// NewAssistantMessage creates an assistant reply event.
func NewAssistantMessage(text string) AssistantMessage {
	return AssistantMessage{Base: NewBase(KindAssistantMessage), Text: text}
}
