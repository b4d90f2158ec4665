// Package deepgram implements the streaming transcription adapter against
// the Deepgram listen websocket API.
package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"

	"github.com/voicekind/companion-core/core/audio"
	"github.com/voicekind/companion-core/core/speechtotext"
)

// Capture feeds raw microphone frames into the transcription stream while a
// listening segment is active.
type Capture interface {
	Stream(ctx context.Context, onAudio func(audio []byte)) error
	Close()
}

// TranscriptionClient holds one websocket connection to the listen endpoint
// for the lifetime of a session. Capture segments start and stop around
// turns while the connection stays up, kept alive by the silence generator.
type TranscriptionClient struct {
	conn      *websocket.Conn
	connMu    sync.Mutex
	lastMsgTs time.Time

	mu                    sync.Mutex
	callbacks             speechtotext.TranscriptionOptions
	started               bool
	accumulatedTranscript string
	unendedSegment        bool
	captureCancel         context.CancelFunc

	apiKey   string
	encoding audio.EncodingInfo
	silence  time.Duration
	capture  Capture

	readCancel context.CancelFunc
}

type ClientOption func(*TranscriptionClient)

func WithAPIKey(apiKey string) ClientOption {
	return func(c *TranscriptionClient) {
		if apiKey != "" {
			c.apiKey = apiKey
		}
	}
}

func WithCapture(capture Capture) ClientOption {
	return func(c *TranscriptionClient) { c.capture = capture }
}

func WithEncodingInfo(encoding audio.EncodingInfo) ClientOption {
	return func(c *TranscriptionClient) {
		if !encoding.IsZero() {
			c.encoding = encoding
		}
	}
}

func WithUtteranceEndSilence(silence time.Duration) ClientOption {
	return func(c *TranscriptionClient) {
		c.silence = speechtotext.ClampUtteranceEndSilence(silence)
	}
}

func NewTranscriptionClient(opts ...ClientOption) *TranscriptionClient {
	client := &TranscriptionClient{
		apiKey:   os.Getenv("DEEPGRAM_API_KEY"),
		encoding: audio.DefaultCaptureEncoding(),
		silence:  speechtotext.DefaultUtteranceEndSilence,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Initialize dials the listen websocket. It is not safe for concurrent use;
// the orchestrator serializes calls behind its single-flight guard.
func (c *TranscriptionClient) Initialize(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn != nil {
		return nil
	}

	encoding, err := convertEncoding(c.encoding)
	if err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	conn, err := c.connectWebsocket(ctx, encoding)
	if err != nil {
		return fmt.Errorf("failed to open websocket: %w", err)
	}

	c.conn = conn
	c.lastMsgTs = time.Now()

	readCtx, readCancel := context.WithCancel(context.WithoutCancel(ctx))
	c.readCancel = readCancel
	go c.readAndProcessMessages(readCtx, conn)

	return nil
}

func (c *TranscriptionClient) connectWebsocket(ctx context.Context, encoding *encodingInfo) (*websocket.Conn, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	listenUrl, _ := url.Parse("wss://api.deepgram.com/v1/listen")
	queryParams := listenUrl.Query()
	queryParams.Set("encoding", encoding.Format.Name())
	queryParams.Set("sample_rate", strconv.Itoa(encoding.SampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", "nova-3")
	queryParams.Set("language", "en-US")
	queryParams.Set("smart_format", "true")
	queryParams.Set("interim_results", "true")
	queryParams.Set("utterance_end_ms", strconv.FormatInt(c.silence.Milliseconds(), 10))
	queryParams.Set("endpointing", "300")
	queryParams.Set("vad_events", "true")

	listenUrl.RawQuery = queryParams.Encode()
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, listenUrl.String(),
		http.Header{"Authorization": {"Token " + c.apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

// Start begins a listening segment: registers the segment's callbacks and
// starts feeding capture audio into the stream.
func (c *TranscriptionClient) Start(ctx context.Context, opts ...speechtotext.TranscriptionOption) error {
	c.connMu.Lock()
	initialized := c.conn != nil
	c.connMu.Unlock()
	if !initialized {
		return fmt.Errorf("transcription connection not initialized")
	}

	options := speechtotext.TranscriptionOptions{
		EncodingInfo:        c.encoding,
		UtteranceEndSilence: c.silence,
	}
	for _, opt := range opts {
		opt(&options)
	}

	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.callbacks = options
	c.started = true
	c.accumulatedTranscript = ""
	c.unendedSegment = false

	var captureCtx context.Context
	if c.capture != nil {
		captureCtx, c.captureCancel = context.WithCancel(context.WithoutCancel(ctx))
	}
	c.mu.Unlock()

	if c.capture != nil {
		go func() {
			if err := c.capture.Stream(captureCtx, func(chunk []byte) {
				if err := c.SendAudio(chunk); err != nil {
					log.Println("Failed to forward capture audio", "error", err)
				}
			}); err != nil {
				log.Println("Capture stream ended with error", "error", err)
			}
		}()
	}

	return nil
}

// Stop ends the listening segment and returns whatever partial transcript
// accumulated since the segment started.
func (c *TranscriptionClient) Stop() (string, error) {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return "", nil
	}
	c.started = false
	c.callbacks = speechtotext.TranscriptionOptions{}
	partial := strings.TrimSpace(c.accumulatedTranscript)
	c.accumulatedTranscript = ""
	c.unendedSegment = false
	captureCancel := c.captureCancel
	c.captureCancel = nil
	c.mu.Unlock()

	if captureCancel != nil {
		captureCancel()
	}

	return partial, nil
}

func (c *TranscriptionClient) SendAudio(chunk []byte) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("transcription connection not initialized")
	}

	c.lastMsgTs = time.Now()
	if err := c.conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

func (c *TranscriptionClient) Close(ctx context.Context) error {
	if _, err := c.Stop(); err != nil {
		log.Println("Failed to stop transcription segment on close", "error", err)
	}

	c.connMu.Lock()
	conn := c.conn
	c.conn = nil
	readCancel := c.readCancel
	c.readCancel = nil
	c.connMu.Unlock()

	if readCancel != nil {
		readCancel()
	}
	if c.capture != nil {
		c.capture.Close()
	}

	if conn == nil {
		return nil
	}

	if err := conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to close deepgram stream: %w", err)
	}
	if err := conn.Close(); err != nil {
		return fmt.Errorf("failed to close deepgram websocket: %w", err)
	}

	return nil
}

func (c *TranscriptionClient) sendKeepAlive() {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return
	}
	if err := c.conn.WriteJSON(
		struct {
			Type string `json:"type"`
		}{
			Type: "KeepAlive",
		}); err != nil {
		log.Println("Failed to write to deepgram client", "error", err)
	}
}

func (c *TranscriptionClient) sendSilence(chunk []byte) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return nil
	}
	if err := c.conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

func (c *TranscriptionClient) readAndProcessMessages(ctx context.Context, conn *websocket.Conn) {
	silenceCtx, silenceCancel := context.WithCancel(ctx)
	defer silenceCancel()

	go c.generateSilence(silenceCtx, c.encoding)

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if err.Error() != "websocket: close 1000 (normal)" {
				log.Println("Failed to read deepgram websocket message", "error", err)
			}

			c.connMu.Lock()
			if c.conn == conn {
				c.conn = nil
			}
			c.connMu.Unlock()
			conn.Close()
			return
		}
		if msgType != websocket.BinaryMessage {
			c.processMessage(msg)
		}
	}
}

func (c *TranscriptionClient) processMessage(msg []byte) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	err := json.Unmarshal(msg, &parsedMsg)
	if err != nil {
		log.Println("Failed to unmarshal deepgram message", "error", err)
		return
	}

	// Callbacks may re-enter Start/Stop, so they are collected under the
	// lock and invoked after it is released.
	var deferred []func()

	c.mu.Lock()
	if !c.started {
		// No listening segment is active, drop the message.
		c.mu.Unlock()
		return
	}
	callbacks := c.callbacks

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			c.mu.Unlock()
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}
		if msgResp.IsFinal {
			if len(msgResp.Channel.Alternatives) > 0 {
				transcript := strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
				if len(transcript) > 0 {
					c.accumulatedTranscript += " " + transcript
				}
			}
			if msgResp.SpeechFinal {
				deferred = c.finalizeUtteranceLocked()
			}
		}
		if !msgResp.IsFinal && callbacks.InterimTranscriptionCallback != nil {
			if len(msgResp.Channel.Alternatives) > 0 {
				transcript := strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
				if len(transcript) > 0 {
					interim := strings.TrimSpace(c.accumulatedTranscript + " " + transcript)
					deferred = append(deferred, func() { callbacks.InterimTranscriptionCallback(interim) })
				}
			}
		}

	case api.TypeUtteranceEndResponse:
		var msgResp api.UtteranceEndResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			c.mu.Unlock()
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		if c.unendedSegment {
			deferred = c.finalizeUtteranceLocked()
		}
	case api.TypeSpeechStartedResponse:
		var msgResp api.SpeechStartedResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			c.mu.Unlock()
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		c.unendedSegment = true
		if callbacks.SpeechStartedCallback != nil {
			deferred = append(deferred, callbacks.SpeechStartedCallback)
		}
	}
	c.mu.Unlock()

	for _, callback := range deferred {
		callback()
	}
}

func (c *TranscriptionClient) finalizeUtteranceLocked() []func() {
	c.unendedSegment = false
	fullTranscript := strings.TrimSpace(c.accumulatedTranscript)
	c.accumulatedTranscript = ""

	callbacks := c.callbacks
	var deferred []func()
	if len(fullTranscript) > 0 && callbacks.TranscriptionCallback != nil {
		deferred = append(deferred, func() { callbacks.TranscriptionCallback(fullTranscript) })
	}
	if callbacks.SpeechEndedCallback != nil {
		deferred = append(deferred, callbacks.SpeechEndedCallback)
	}
	return deferred
}

func (c *TranscriptionClient) generateSilence(ctx context.Context, encoding audio.EncodingInfo) {
	type silenceGeneratorState string
	const (
		silenceGeneratorStateWaiting   silenceGeneratorState = "waiting"
		silenceGeneratorStateSilence   silenceGeneratorState = "silence"
		silenceGeneratorStateKeepAlive silenceGeneratorState = "keepAlive"
	)

	const durationMs = 50
	const millisecondsPerSecond = 1000
	ticker := time.NewTicker(durationMs * time.Millisecond)

	chunk := make([]byte, encoding.SampleRate*encoding.Format.ByteSize()*durationMs/millisecondsPerSecond)
	for i := range chunk {
		chunk[i] = encoding.SilenceValue()
	}

	var state = silenceGeneratorStateWaiting
	var firstSilenceTime time.Time
	var lastKeepAliveTime time.Time
	for {
		select {
		case <-ctx.Done():
			ticker.Stop()
			return
		case <-ticker.C:
			switch state {
			case silenceGeneratorStateWaiting:
				if time.Since(c.lastMsgTs).Milliseconds() > durationMs {
					state = silenceGeneratorStateSilence
					firstSilenceTime = time.Now()
					continue
				}

			case silenceGeneratorStateSilence:
				if time.Since(c.lastMsgTs).Milliseconds() < durationMs {
					state = silenceGeneratorStateWaiting
					continue
				}
				if time.Since(firstSilenceTime).Milliseconds() >= 1000 {
					state = silenceGeneratorStateKeepAlive
					lastKeepAliveTime = time.Now()
					continue
				}

				if err := c.sendSilence(chunk); err != nil {
					log.Println("Sending silence audio error", err)
				}

			case silenceGeneratorStateKeepAlive:
				if time.Since(c.lastMsgTs).Milliseconds() < durationMs {
					state = silenceGeneratorStateWaiting
					continue
				}

				if time.Since(lastKeepAliveTime).Seconds() >= 5 {
					lastKeepAliveTime = time.Now()
					c.sendKeepAlive()
				}
			}
		}
	}
}
