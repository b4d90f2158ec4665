package orchestration

import (
	"github.com/voicekind/companion-core/core/events"
)

// SetMuted toggles spoken output. Muting does not touch the turn state
// machine; replies generated while muted still enter the history. Muting
// mid-reply cancels the in flight synthesis.
func (s *Session) SetMuted(muted bool) {
	s.mu.Lock()
	if s.muted == muted {
		s.mu.Unlock()
		return
	}
	s.muted = muted
	cancelSpeech := muted && s.state == TurnStateSpeaking
	s.mu.Unlock()

	if cancelSpeech {
		s.speechOutput.Cancel()
	}

	s.emitEvent(events.NewMuteStateChanged(muted))
}

// IsMuted reports whether spoken output is currently suppressed.
func (s *Session) IsMuted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}
