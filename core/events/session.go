package events

const (
	// KindConnectionStateChanged identifies transcription connection changes.
	KindConnectionStateChanged Kind = "session.connection_state_changed"
	// KindListeningStateChanged identifies capture start/stop boundaries.
	KindListeningStateChanged Kind = "session.listening_state_changed"
	// KindMuteStateChanged identifies mute flag toggles.
	KindMuteStateChanged Kind = "session.mute_state_changed"
	// KindSessionClosed identifies session teardown.
	KindSessionClosed Kind = "session.closed"
)

// ConnectionStateChanged reports whether the transcription connection is
// established.
type ConnectionStateChanged struct {
	Base
	Connected bool
}

// NewConnectionStateChanged creates a connection state event.
func NewConnectionStateChanged(connected bool) ConnectionStateChanged {
	return ConnectionStateChanged{Base: NewBase(KindConnectionStateChanged), Connected: connected}
}

// ListeningStateChanged reports whether capture is currently streaming.
type ListeningStateChanged struct {
	Base
	Listening bool
}

// NewListeningStateChanged creates a listening state event.
func NewListeningStateChanged(listening bool) ListeningStateChanged {
	return ListeningStateChanged{Base: NewBase(KindListeningStateChanged), Listening: listening}
}

// MuteStateChanged reports the mute flag after a toggle.
type MuteStateChanged struct {
	Base
	Muted bool
}

// NewMuteStateChanged creates a mute state event.
func NewMuteStateChanged(muted bool) MuteStateChanged {
	return MuteStateChanged{Base: NewBase(KindMuteStateChanged), Muted: muted}
}

// SessionClosed marks session teardown.
type SessionClosed struct{ Base }

// NewSessionClosed creates a session closed event.
func NewSessionClosed() SessionClosed {
	return SessionClosed{Base: NewBase(KindSessionClosed)}
}
