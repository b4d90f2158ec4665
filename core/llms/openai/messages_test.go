package openai

import (
	"testing"

	"github.com/voicekind/companion-core/core/llms"
)

func TestToMessagesMapsRolesInOrder(t *testing.T) {
	history := []llms.Message{
		{Role: llms.RoleSystem, Content: "you are a companion"},
		{Role: llms.RoleUser, Content: "hello there"},
		{Role: llms.RoleAssistant, Content: "hi, how are you?"},
	}

	messages := toMessages(history)

	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}

	expectedRoles := []messageRole{messageRoleSystem, messageRoleUser, messageRoleAssistant}
	for i, expected := range expectedRoles {
		if messages[i].Role != expected {
			t.Fatalf("expected message %d role %q, got %q", i, expected, messages[i].Role)
		}
		if messages[i].Content != history[i].Content {
			t.Fatalf("expected message %d content %q, got %q", i, history[i].Content, messages[i].Content)
		}
	}
}

func TestToMessagesSkipsUnknownRoles(t *testing.T) {
	history := []llms.Message{
		{Role: llms.RoleUser, Content: "hello"},
		{Role: llms.Role("tool"), Content: "ignored"},
	}

	messages := toMessages(history)

	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].Content != "hello" {
		t.Fatalf("expected surviving message to be %q, got %q", "hello", messages[0].Content)
	}
}
