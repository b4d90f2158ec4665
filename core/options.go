package orchestration

import (
	"context"

	"github.com/voicekind/companion-core/core/llms"
	"github.com/voicekind/companion-core/core/speechtotext"
)

// Transcriber captures audio and turns it into utterances. Implementations
// are expected to deliver final transcripts through the callbacks passed to
// Start and to return any partial transcript from Stop.
type Transcriber interface {
	Initialize(ctx context.Context) error
	Start(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	Stop() (string, error)
	Close(ctx context.Context) error
}

// CompletionClient produces an assistant reply for a conversation history.
type CompletionClient interface {
	Complete(ctx context.Context, messages []llms.Message, opts ...llms.CompletionOption) (string, error)
}

// SpeechOutput synthesizes and plays back spoken replies. Speak must invoke
// onComplete exactly once, including when synthesis is cancelled.
type SpeechOutput interface {
	Speak(ctx context.Context, text string, onComplete func()) error
	Cancel()
	Close()
}

// SessionOption configures a Session at construction time.
type SessionOption func(*Session)

// WithTranscriber sets the speech to text client used to capture utterances.
func WithTranscriber(client Transcriber) SessionOption {
	return func(s *Session) {
		s.speechToText = speechToText{client: client}
	}
}

// WithCompletionClient sets the client used to generate assistant replies.
func WithCompletionClient(client CompletionClient) SessionOption {
	return func(s *Session) {
		s.completion = completion{client: client}
	}
}

// WithSpeechOutput sets the client used to speak assistant replies.
func WithSpeechOutput(client SpeechOutput) SessionOption {
	return func(s *Session) {
		s.speechOutput = speechOutput{client: client}
	}
}

// WithGreeting overrides the one-shot greeting spoken by SendInitialGreeting.
func WithGreeting(greeting string) SessionOption {
	return func(s *Session) {
		s.greeting = greeting
	}
}

// WithSystemPrompt overrides the system message seeded into the history.
func WithSystemPrompt(prompt string) SessionOption {
	return func(s *Session) {
		s.systemPrompt = prompt
	}
}

// WithUserMessageCallback registers a callback invoked when an utterance is
// accepted into the conversation.
func WithUserMessageCallback(callback func(text string)) SessionOption {
	return func(s *Session) {
		s.callbacks.onUserMessage = callback
	}
}

// WithInterimTranscriptionCallback registers a callback for in-progress
// transcripts of the current utterance.
func WithInterimTranscriptionCallback(callback func(transcript string)) SessionOption {
	return func(s *Session) {
		s.callbacks.onInterimTranscription = callback
	}
}

// WithAssistantMessageCallback registers a callback invoked when a reply is
// produced, whether or not it is spoken aloud.
func WithAssistantMessageCallback(callback func(text string)) SessionOption {
	return func(s *Session) {
		s.callbacks.onAssistantMessage = callback
	}
}

// WithTurnCompletedCallback registers a callback invoked when a turn releases
// the session, successful or not.
func WithTurnCompletedCallback(callback func()) SessionOption {
	return func(s *Session) {
		s.callbacks.onTurnCompleted = callback
	}
}

// WithConnectionStateCallback registers a callback for transcription
// connection state changes.
func WithConnectionStateCallback(callback func(connected bool)) SessionOption {
	return func(s *Session) {
		s.callbacks.onConnectionStateChanged = callback
	}
}

// WithListeningStateCallback registers a callback for capture start and stop.
func WithListeningStateCallback(callback func(listening bool)) SessionOption {
	return func(s *Session) {
		s.callbacks.onListeningStateChanged = callback
	}
}

// WithMuteStateCallback registers a callback for mute flag changes.
func WithMuteStateCallback(callback func(muted bool)) SessionOption {
	return func(s *Session) {
		s.callbacks.onMuteStateChanged = callback
	}
}

// WithSpeakingStateCallback registers a callback fired when the user starts
// or stops speaking, as detected by the transcriber.
func WithSpeakingStateCallback(callback func(speaking bool)) SessionOption {
	return func(s *Session) {
		s.callbacks.onSpeakingStateChanged = callback
	}
}

// WithClosedCallback registers a callback invoked once when the session
// shuts down.
func WithClosedCallback(callback func()) SessionOption {
	return func(s *Session) {
		s.callbacks.onClosed = callback
	}
}

// WithErrorCallback registers a callback for session failures.
func WithErrorCallback(callback func(kind ErrorKind, message string)) SessionOption {
	return func(s *Session) {
		s.callbacks.onError = callback
	}
}
