package events

// KindErrorRaised identifies a recoverable failure surfaced to the caller.
const KindErrorRaised Kind = "error.raised"

// ErrorRaised carries a recoverable failure. ErrorKind is the orchestrator's
// classification of where the failure happened, Message is human readable.
type ErrorRaised struct {
	Base
	ErrorKind string
	Message   string
}

// NewErrorRaised creates an error event.
func NewErrorRaised(errorKind, message string) ErrorRaised {
	return ErrorRaised{Base: NewBase(KindErrorRaised), ErrorKind: errorKind, Message: message}
}
