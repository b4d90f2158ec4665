package events

// KindTurnCompleted identifies completion of the current turn.
const KindTurnCompleted Kind = "turn_state.completed"

// TurnCompleted marks that the current turn finished, whether its reply was
// spoken, skipped because of mute, or aborted by a completion failure.
type TurnCompleted struct{ Base }

// NewTurnCompleted creates a turn completed event.
func NewTurnCompleted() TurnCompleted {
	return TurnCompleted{Base: NewBase(KindTurnCompleted)}
}
