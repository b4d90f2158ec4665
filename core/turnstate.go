package orchestration

// TurnState is the session's position in the turn lifecycle. Exactly one
// state is active at a time; transitions happen only under the session lock.
type TurnState string

const (
	// TurnStateIdle means no capture is running and no turn is in flight.
	TurnStateIdle TurnState = "idle"
	// TurnStateListening means capture is streaming and utterances are accepted.
	TurnStateListening TurnState = "listening"
	// TurnStateProcessing means an accepted utterance is awaiting its reply.
	TurnStateProcessing TurnState = "processing"
	// TurnStateSpeaking means the reply is being synthesized and played back.
	TurnStateSpeaking TurnState = "speaking"
)

// inFlight reports whether a turn currently owns the session; submissions
// arriving in these states are rejected.
func (s TurnState) inFlight() bool {
	return s == TurnStateProcessing || s == TurnStateSpeaking
}
