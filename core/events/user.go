package events

const (
	// KindUserMessage identifies an accepted user utterance.
	KindUserMessage Kind = "user_input.message"
	// KindUserTranscriptInterim identifies mutable interim transcript updates.
	KindUserTranscriptInterim Kind = "user_input.transcript_interim"
	// KindUserSpeechStarted identifies start of user speech activity.
	KindUserSpeechStarted Kind = "user_input.speech_started"
	// KindUserSpeechEnded identifies end of user speech activity.
	KindUserSpeechEnded Kind = "user_input.speech_ended"
)

// UserMessage carries an utterance accepted into the conversation history.
type UserMessage struct {
	Base
	Text string
}

// NewUserMessage creates an accepted user utterance event.
func NewUserMessage(text string) UserMessage {
	return UserMessage{Base: NewBase(KindUserMessage), Text: text}
}

// UserTranscriptInterim carries the mutable interim transcript snapshot.
type UserTranscriptInterim struct {
	Base
	Transcript string
}

// NewUserTranscriptInterim creates an interim transcript snapshot event.
func NewUserTranscriptInterim(transcript string) UserTranscriptInterim {
	return UserTranscriptInterim{Base: NewBase(KindUserTranscriptInterim), Transcript: transcript}
}

// UserSpeechStarted marks when user speech activity starts.
type UserSpeechStarted struct{ Base }

// NewUserSpeechStarted creates a user speech started event.
func NewUserSpeechStarted() UserSpeechStarted {
	return UserSpeechStarted{Base: NewBase(KindUserSpeechStarted)}
}

// UserSpeechEnded marks when user speech activity ends.
type UserSpeechEnded struct{ Base }

// NewUserSpeechEnded creates a user speech ended event.
func NewUserSpeechEnded() UserSpeechEnded {
	return UserSpeechEnded{Base: NewBase(KindUserSpeechEnded)}
}
