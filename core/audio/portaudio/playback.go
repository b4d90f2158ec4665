// Package portaudio provides a speaker playback client backed by PortAudio.
package portaudio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/voicekind/companion-core/core/audio"
)

const defaultBufferSize = 1024

// PlaybackClient writes raw linear16 frames to the default output device.
type PlaybackClient struct {
	stream *portaudio.Stream
	out    []int16

	// leftover holds the tail of a write that did not fill a whole buffer.
	leftover []byte

	mu sync.Mutex
}

func NewPlaybackClient() (*PlaybackClient, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	out := make([]int16, defaultBufferSize)
	stream, err := portaudio.OpenDefaultStream(0, 1, audio.PlaybackSampleRate, defaultBufferSize, out)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	return &PlaybackClient{stream: stream, out: out}, nil
}

func (c *PlaybackClient) EncodingInfo() audio.EncodingInfo {
	return audio.DefaultPlaybackEncoding()
}

// Write plays back the given linear16 little-endian frames, blocking until
// the full chunk has been handed to the device.
func (c *PlaybackClient) Write(chunk []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream == nil {
		return fmt.Errorf("playback stream closed")
	}

	buffered := append(c.leftover, chunk...)
	frameBytes := len(c.out) * 2
	for len(buffered) >= frameBytes {
		if err := binary.Read(bytes.NewReader(buffered[:frameBytes]), binary.LittleEndian, c.out); err != nil {
			return fmt.Errorf("failed to decode playback frames: %w", err)
		}
		if err := c.stream.Write(); err != nil {
			return fmt.Errorf("failed to write to portaudio stream: %w", err)
		}
		buffered = buffered[frameBytes:]
	}
	c.leftover = buffered

	return nil
}

func (c *PlaybackClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream == nil {
		return nil
	}

	err := c.stream.Close()
	c.stream = nil
	if terminateErr := portaudio.Terminate(); err == nil {
		err = terminateErr
	}
	if err != nil {
		return fmt.Errorf("failed to close portaudio stream: %w", err)
	}

	return nil
}
