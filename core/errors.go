package orchestration

// ErrorKind classifies session failures surfaced through the error callback.
type ErrorKind string

const (
	// ErrorKindConnection covers failures establishing or keeping the
	// transcription connection.
	ErrorKindConnection ErrorKind = "connection"
	// ErrorKindCompletion covers reply generation failures.
	ErrorKindCompletion ErrorKind = "completion"
	// ErrorKindSynthesis covers speech synthesis failures.
	ErrorKindSynthesis ErrorKind = "synthesis"
	// ErrorKindCaptureStop covers failures while stopping audio capture.
	// These are non-fatal to the session.
	ErrorKindCaptureStop ErrorKind = "capture_stop"
)
