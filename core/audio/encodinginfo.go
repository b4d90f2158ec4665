package audio

const (
	// CaptureSampleRate is the sample rate microphone capture runs at.
	CaptureSampleRate = 16000
	// PlaybackSampleRate is the sample rate synthesized speech is produced at.
	PlaybackSampleRate = 24000
)

// EncodingInfo describes the raw audio format flowing between the capture
// device, the transcription stream and the synthesis stream.
type EncodingInfo struct {
	SampleRate int
	Format     Format
}

func DefaultCaptureEncoding() EncodingInfo {
	return EncodingInfo{SampleRate: CaptureSampleRate, Format: FormatLinear16}
}

func DefaultPlaybackEncoding() EncodingInfo {
	return EncodingInfo{SampleRate: PlaybackSampleRate, Format: FormatLinear16}
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

// SilenceValue is the byte that represents silence for the format, used when
// padding the transcription stream during capture gaps.
func (e EncodingInfo) SilenceValue() byte {
	switch e.Format {
	case FormatALaw:
		return 0x55
	case FormatMulaw:
		return 0xFF
	}

	return 0
}

type Format string

func (f Format) Name() string { return string(f) }

func (f Format) ByteSize() int {
	switch f {
	case FormatMulaw, FormatALaw:
		return 1
	case FormatLinear16:
		return 2
	}
	return -1
}

const (
	FormatLinear16 Format = "linear16"
	FormatMulaw    Format = "mulaw"
	FormatALaw     Format = "alaw"
)
