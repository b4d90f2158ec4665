package orchestration

import (
	"context"

	"github.com/voicekind/companion-core/core/speechtotext"
)

// speechToText wraps an optional Transcriber. Every method tolerates a nil
// client so a session without audio input still runs submitted turns.
type speechToText struct {
	client Transcriber
}

func (s speechToText) Initialize(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Initialize(ctx)
}

func (s speechToText) Start(ctx context.Context, opts ...speechtotext.TranscriptionOption) error {
	if s.client == nil {
		return nil
	}
	return s.client.Start(ctx, opts...)
}

func (s speechToText) Stop() (string, error) {
	if s.client == nil {
		return "", nil
	}
	return s.client.Stop()
}

func (s speechToText) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Close(ctx)
}
