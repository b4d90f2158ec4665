package texttospeech

import "github.com/voicekind/companion-core/core/audio"

type SpeechOptions struct {
	// SpeechAudioCallback is called for each synthesized audio frame, in
	// addition to any playback sink configured on the client.
	SpeechAudioCallback func(audio []byte)
	// ErrorCallback is called when synthesis fails mid-stream. Failure is
	// never fatal to the session; the utterance is treated as completed.
	ErrorCallback func(error)

	EncodingInfo audio.EncodingInfo
}

type SpeechOption func(*SpeechOptions)

func WithSpeechAudioCallback(callback func(audio []byte)) SpeechOption {
	return func(o *SpeechOptions) { o.SpeechAudioCallback = callback }
}

func WithErrorCallback(callback func(error)) SpeechOption {
	return func(o *SpeechOptions) { o.ErrorCallback = callback }
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) SpeechOption {
	return func(o *SpeechOptions) {
		if encodingInfo.IsZero() {
			return
		}

		o.EncodingInfo = encodingInfo
	}
}

// Playback consumes synthesized audio frames for audible output.
type Playback interface {
	Write(audio []byte) error
}
