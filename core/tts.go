package orchestration

import "context"

// speechOutput wraps an optional SpeechOutput. With no client replies are
// still appended to the history; Speak completes immediately so the turn
// lifecycle is unaffected.
type speechOutput struct {
	client SpeechOutput
}

func (s speechOutput) Speak(ctx context.Context, text string, onComplete func()) error {
	if s.client == nil {
		if onComplete != nil {
			onComplete()
		}
		return nil
	}
	return s.client.Speak(ctx, text, onComplete)
}

func (s speechOutput) Cancel() {
	if s.client == nil {
		return
	}
	s.client.Cancel()
}

func (s speechOutput) Close() {
	if s.client == nil {
		return
	}
	s.client.Close()
}
