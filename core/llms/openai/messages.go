package openai

import "github.com/voicekind/companion-core/core/llms"

type message struct {
	Role    messageRole `json:"role"`
	Content string      `json:"content"`
}

type messageRole string

const (
	messageRoleSystem    messageRole = "system"
	messageRoleUser      messageRole = "user"
	messageRoleAssistant messageRole = "assistant"
)

type requestBody struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_completion_tokens,omitempty"`
}

type responseBody struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func toMessages(history []llms.Message) []message {
	messages := make([]message, 0, len(history))
	for _, entry := range history {
		var role messageRole
		switch entry.Role {
		case llms.RoleSystem:
			role = messageRoleSystem
		case llms.RoleUser:
			role = messageRoleUser
		case llms.RoleAssistant:
			role = messageRoleAssistant
		default:
			continue
		}

		messages = append(messages, message{Role: role, Content: entry.Content})
	}

	return messages
}
