package orchestration

import (
	"github.com/voicekind/companion-core/core/events"
)

// eventEmitter delivers session events to whoever is observing the session.
type eventEmitter func(event events.Event)

func noopEventEmitter(events.Event) {}

// sessionCallbacks holds the per-concern callbacks registered through
// session options. Unset callbacks are simply skipped.
type sessionCallbacks struct {
	onUserMessage            func(text string)
	onInterimTranscription   func(transcript string)
	onAssistantMessage       func(text string)
	onTurnCompleted          func()
	onConnectionStateChanged func(connected bool)
	onListeningStateChanged  func(listening bool)
	onMuteStateChanged       func(muted bool)
	onSpeakingStateChanged   func(speaking bool)
	onError                  func(kind ErrorKind, message string)
	onClosed                 func()
}

// newCallbackEventEmitter fans typed events out to the matching callbacks.
func newCallbackEventEmitter(callbacks sessionCallbacks) eventEmitter {
	return func(event events.Event) {
		switch e := event.(type) {
		case events.UserMessage:
			if callbacks.onUserMessage != nil {
				callbacks.onUserMessage(e.Text)
			}
		case events.UserTranscriptInterim:
			if callbacks.onInterimTranscription != nil {
				callbacks.onInterimTranscription(e.Transcript)
			}
		case events.UserSpeechStarted:
			if callbacks.onSpeakingStateChanged != nil {
				callbacks.onSpeakingStateChanged(true)
			}
		case events.UserSpeechEnded:
			if callbacks.onSpeakingStateChanged != nil {
				callbacks.onSpeakingStateChanged(false)
			}
		case events.AssistantMessage:
			if callbacks.onAssistantMessage != nil {
				callbacks.onAssistantMessage(e.Text)
			}
		case events.TurnCompleted:
			if callbacks.onTurnCompleted != nil {
				callbacks.onTurnCompleted()
			}
		case events.ConnectionStateChanged:
			if callbacks.onConnectionStateChanged != nil {
				callbacks.onConnectionStateChanged(e.Connected)
			}
		case events.ListeningStateChanged:
			if callbacks.onListeningStateChanged != nil {
				callbacks.onListeningStateChanged(e.Listening)
			}
		case events.MuteStateChanged:
			if callbacks.onMuteStateChanged != nil {
				callbacks.onMuteStateChanged(e.Muted)
			}
		case events.SessionClosed:
			if callbacks.onClosed != nil {
				callbacks.onClosed()
			}
		case events.ErrorRaised:
			if callbacks.onError != nil {
				callbacks.onError(ErrorKind(e.ErrorKind), e.Message)
			}
		}
	}
}
