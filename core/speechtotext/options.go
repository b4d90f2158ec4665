package speechtotext

import (
	"time"

	"github.com/voicekind/companion-core/core/audio"
)

const (
	// DefaultUtteranceEndSilence is the pause that finalizes an utterance.
	DefaultUtteranceEndSilence = 1200 * time.Millisecond

	minUtteranceEndSilence = 1000 * time.Millisecond
	maxUtteranceEndSilence = 2000 * time.Millisecond
)

type TranscriptionOptions struct {
	// InterimTranscriptionCallback receives mutable transcript snapshots
	// while the speaker is still talking.
	InterimTranscriptionCallback func(transcript string)
	// TranscriptionCallback receives the finalized utterance once silence
	// exceeds the utterance-end threshold.
	TranscriptionCallback func(transcript string)

	SpeechStartedCallback func()
	SpeechEndedCallback   func()

	EncodingInfo        audio.EncodingInfo
	UtteranceEndSilence time.Duration
}

type TranscriptionOption func(*TranscriptionOptions)

func WithTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.TranscriptionCallback = callback
	}
}

func WithInterimTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.InterimTranscriptionCallback = callback
	}
}

func WithSpeechStartedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechStartedCallback = callback
	}
}

func WithSpeechEndedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechEndedCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		if encodingInfo.IsZero() {
			return
		}

		o.EncodingInfo = encodingInfo
	}
}

// WithUtteranceEndSilence sets the silence duration that finalizes an
// utterance. Values are clamped to the 1-2 second range the endpointing
// service supports.
func WithUtteranceEndSilence(silence time.Duration) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.UtteranceEndSilence = ClampUtteranceEndSilence(silence)
	}
}

func ClampUtteranceEndSilence(silence time.Duration) time.Duration {
	if silence <= 0 {
		return DefaultUtteranceEndSilence
	}
	if silence < minUtteranceEndSilence {
		return minUtteranceEndSilence
	}
	if silence > maxUtteranceEndSilence {
		return maxUtteranceEndSilence
	}
	return silence
}
