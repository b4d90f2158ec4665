package orchestration

import (
	"context"

	"github.com/voicekind/companion-core/core/llms"
)

// completion wraps an optional CompletionClient. Without a client every
// turn fails with a service error rather than panicking.
type completion struct {
	client CompletionClient
}

func (c completion) Complete(ctx context.Context, messages []llms.Message, opts ...llms.CompletionOption) (string, error) {
	if c.client == nil {
		return "", &llms.ServiceError{Provider: "none", Message: "no completion client configured"}
	}
	return c.client.Complete(ctx, messages, opts...)
}
