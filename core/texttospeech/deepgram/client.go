// Package deepgram implements the speech output adapter against the
// Deepgram speak websocket API.
package deepgram

import (
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/voicekind/companion-core/core/audio"
	"github.com/voicekind/companion-core/core/texttospeech"
)

type Voice string

const (
	VoiceThalia    Voice = "aura-2-thalia-en"
	VoiceArcas     Voice = "aura-2-arcas-en"
	VoiceAndromeda Voice = "aura-2-andromeda-en"
	VoiceOrion     Voice = "aura-2-orion-en"
	VoiceLuna      Voice = "aura-2-luna-en"

	defaultVoice = VoiceThalia
)

func AvailableVoices() []Voice {
	return []Voice{VoiceThalia, VoiceArcas, VoiceAndromeda, VoiceOrion, VoiceLuna}
}

// SpeechClient synthesizes one utterance at a time over a short-lived
// websocket per Speak call. The completion callback fires exactly once per
// call, whether playback finishes naturally, fails, or is cancelled.
type SpeechClient struct {
	apiKey   string
	voice    Voice
	options  texttospeech.SpeechOptions
	playback texttospeech.Playback

	mu      sync.Mutex
	current *speechRequest
}

type ClientOption func(*SpeechClient)

func WithAPIKey(apiKey string) ClientOption {
	return func(c *SpeechClient) {
		if apiKey != "" {
			c.apiKey = apiKey
		}
	}
}

func WithVoice(voice Voice) ClientOption {
	return func(c *SpeechClient) { c.voice = voice }
}

func WithPlayback(playback texttospeech.Playback) ClientOption {
	return func(c *SpeechClient) { c.playback = playback }
}

func WithSpeechOptions(opts ...texttospeech.SpeechOption) ClientOption {
	return func(c *SpeechClient) {
		for _, opt := range opts {
			opt(&c.options)
		}
	}
}

func NewSpeechClient(opts ...ClientOption) (*SpeechClient, error) {
	client := &SpeechClient{
		apiKey: os.Getenv("DEEPGRAM_API_KEY"),
		voice:  defaultVoice,
		options: texttospeech.SpeechOptions{
			EncodingInfo: audio.DefaultPlaybackEncoding(),
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	if !slices.Contains(AvailableVoices(), client.voice) {
		return nil, fmt.Errorf("invalid voice")
	}

	return client, nil
}

// Cancel releases the in-flight utterance, if any. Its completion callback
// fires through the request's once guard.
func (c *SpeechClient) Cancel() {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()

	if current != nil {
		current.cancel()
	}
}

func (c *SpeechClient) Close() {
	c.Cancel()
}

func (c *SpeechClient) setCurrent(request *speechRequest) {
	c.mu.Lock()
	c.current = request
	c.mu.Unlock()
}

func (c *SpeechClient) clearCurrent(request *speechRequest) {
	c.mu.Lock()
	if c.current == request {
		c.current = nil
	}
	c.mu.Unlock()
}
