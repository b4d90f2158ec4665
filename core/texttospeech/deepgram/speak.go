package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/voicekind/companion-core/core/audio"
)

type speechRequest struct {
	ws     *websocket.Conn
	client *SpeechClient

	completeOnce sync.Once
	onComplete   func()
}

// Speak synthesizes the given text and blocks only for the websocket
// handshake; audio is drained in the background. onComplete fires exactly
// once, after natural completion, failure, or Cancel.
func (c *SpeechClient) Speak(ctx context.Context, text string, onComplete func()) error {
	if onComplete == nil {
		onComplete = func() {}
	}
	if text == "" {
		onComplete()
		return nil
	}

	ws, err := c.connectWebsocket(ctx, c.options.EncodingInfo)
	if err != nil {
		return fmt.Errorf("failed to open websocket: %w", err)
	}

	request := &speechRequest{ws: ws, client: c, onComplete: onComplete}
	c.setCurrent(request)

	if err := request.sendMessage(speakMsg(text)); err != nil {
		request.release()
		return fmt.Errorf("failed to send speak message: %w", err)
	}
	if err := request.sendMessage(flushMsg); err != nil {
		request.release()
		return fmt.Errorf("failed to send flush message: %w", err)
	}

	go request.processIncomingMessages()

	return nil
}

func (c *SpeechClient) connectWebsocket(ctx context.Context, encodingInfo audio.EncodingInfo) (*websocket.Conn, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	urlValues := url.Values{}
	urlValues.Set("encoding", encodingInfo.Format.Name())
	urlValues.Set("sample_rate", strconv.Itoa(encodingInfo.SampleRate))
	urlValues.Set("model", string(c.voice))
	urlValues.Set("container", "none")

	conn, _, err := websocket.DefaultDialer.DialContext(ctx,
		(&url.URL{
			Scheme: "wss",
			Host:   "api.deepgram.com", Path: "/v1/speak",
			RawQuery: urlValues.Encode(),
		}).String(),
		http.Header{"Authorization": {"token " + c.apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

func (r *speechRequest) processIncomingMessages() {
	for {
		msgType, msg, err := r.ws.ReadMessage()
		if err != nil {
			if err.Error() != "websocket: close 1000 (normal)" &&
				!websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Printf("Websocket read error: %v", err)
				if r.client.options.ErrorCallback != nil {
					r.client.options.ErrorCallback(err)
				}
			}
			r.release()
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			if r.client.playback != nil {
				if err := r.client.playback.Write(msg); err != nil {
					log.Printf("Failed to write synthesized audio to playback: %v", err)
				}
			}
			if r.client.options.SpeechAudioCallback != nil {
				r.client.options.SpeechAudioCallback(msg)
			}
		case websocket.TextMessage:
			var parsedMsg struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(msg, &parsedMsg); err != nil {
				continue
			}

			switch parsedMsg.Type {
			case "Flushed":
				// All text sent before the flush has been synthesized.
				r.release()
				return
			case "Warning":
				log.Printf("Deepgram speak warning: %s", string(msg))
			}
		}
	}
}

// cancel clears the service-side buffer and releases the request.
func (r *speechRequest) cancel() {
	if err := r.sendMessage(clearMsg); err != nil {
		log.Printf("Failed to clear deepgram speak buffer: %v", err)
	}
	r.release()
}

// release closes the websocket and fires the completion callback. Safe to
// call from the read loop, from cancel, and from Speak error paths; the
// callback fires exactly once.
func (r *speechRequest) release() {
	r.completeOnce.Do(func() {
		_ = r.sendMessage(closeMsg)
		if r.ws != nil {
			_ = r.ws.Close()
		}
		r.client.clearCurrent(r)
		r.onComplete()
	})
}

type websocketMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

var (
	flushMsg = websocketMessage{Type: "Flush"}
	clearMsg = websocketMessage{Type: "Clear"}
	closeMsg = websocketMessage{Type: "Close"}
)

func speakMsg(text string) websocketMessage {
	return websocketMessage{Type: "Speak", Text: text}
}

func (r *speechRequest) sendMessage(msg websocketMessage) error {
	if r.ws == nil {
		return nil
	}
	if err := r.ws.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write websocket message: %w", err)
	}
	return nil
}
