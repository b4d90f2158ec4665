package deepgram

import (
	"sync/atomic"
	"testing"

	"github.com/voicekind/companion-core/core/speechtotext"
)

func startedClient(t *testing.T, opts speechtotext.TranscriptionOptions) *TranscriptionClient {
	t.Helper()

	client := NewTranscriptionClient(WithAPIKey("test-key"))
	client.mu.Lock()
	client.started = true
	client.callbacks = opts
	client.mu.Unlock()
	return client
}

func TestProcessMessageIgnoresMessagesWithoutActiveSegment(t *testing.T) {
	transcriptionCalls := atomic.Int32{}

	client := NewTranscriptionClient(WithAPIKey("test-key"))
	client.callbacks = speechtotext.TranscriptionOptions{
		TranscriptionCallback: func(string) { transcriptionCalls.Add(1) },
	}

	client.processMessage([]byte(`{"type":"Results","is_final":true,"speech_final":true,"channel":{"alternatives":[{"transcript":"hello"}]}}`))

	if got := transcriptionCalls.Load(); got != 0 {
		t.Fatalf("expected no transcription callback without active segment, got %d", got)
	}
}

func TestProcessMessageEmitsInterimSnapshots(t *testing.T) {
	interim := make(chan string, 1)

	client := startedClient(t, speechtotext.TranscriptionOptions{
		InterimTranscriptionCallback: func(transcript string) { interim <- transcript },
	})

	client.processMessage([]byte(`{"type":"Results","is_final":false,"channel":{"alternatives":[{"transcript":"hello th"}]}}`))

	select {
	case got := <-interim:
		if got != "hello th" {
			t.Fatalf("expected interim %q, got %q", "hello th", got)
		}
	default:
		t.Fatalf("expected interim callback to fire")
	}
}

func TestProcessMessageAccumulatesFinalSegmentsUntilSpeechFinal(t *testing.T) {
	finals := make(chan string, 1)
	speechEnded := atomic.Int32{}

	client := startedClient(t, speechtotext.TranscriptionOptions{
		TranscriptionCallback: func(transcript string) { finals <- transcript },
		SpeechEndedCallback:   func() { speechEnded.Add(1) },
	})

	client.processMessage([]byte(`{"type":"Results","is_final":true,"speech_final":false,"channel":{"alternatives":[{"transcript":"hello"}]}}`))
	select {
	case got := <-finals:
		t.Fatalf("expected no finalization before speech_final, got %q", got)
	default:
	}

	client.processMessage([]byte(`{"type":"Results","is_final":true,"speech_final":true,"channel":{"alternatives":[{"transcript":"there"}]}}`))
	select {
	case got := <-finals:
		if got != "hello there" {
			t.Fatalf("expected finalized transcript %q, got %q", "hello there", got)
		}
	default:
		t.Fatalf("expected finalized transcript after speech_final")
	}

	if got := speechEnded.Load(); got != 1 {
		t.Fatalf("expected one speech ended callback, got %d", got)
	}
}

func TestProcessMessageFinalizesOnUtteranceEnd(t *testing.T) {
	finals := make(chan string, 1)
	speechStarted := atomic.Int32{}

	client := startedClient(t, speechtotext.TranscriptionOptions{
		TranscriptionCallback: func(transcript string) { finals <- transcript },
		SpeechStartedCallback: func() { speechStarted.Add(1) },
	})

	client.processMessage([]byte(`{"type":"SpeechStarted"}`))
	client.processMessage([]byte(`{"type":"Results","is_final":true,"speech_final":false,"channel":{"alternatives":[{"transcript":"still here"}]}}`))
	client.processMessage([]byte(`{"type":"UtteranceEnd"}`))

	select {
	case got := <-finals:
		if got != "still here" {
			t.Fatalf("expected finalized transcript %q, got %q", "still here", got)
		}
	default:
		t.Fatalf("expected utterance end to finalize accumulated transcript")
	}

	if got := speechStarted.Load(); got != 1 {
		t.Fatalf("expected one speech started callback, got %d", got)
	}

	// A second utterance end without new speech is a no-op.
	client.processMessage([]byte(`{"type":"UtteranceEnd"}`))
	select {
	case got := <-finals:
		t.Fatalf("expected no second finalization, got %q", got)
	default:
	}
}

func TestStopReturnsAccumulatedPartialTranscript(t *testing.T) {
	client := startedClient(t, speechtotext.TranscriptionOptions{})

	client.processMessage([]byte(`{"type":"Results","is_final":true,"speech_final":false,"channel":{"alternatives":[{"transcript":"partial words"}]}}`))

	partial, err := client.Stop()
	if err != nil {
		t.Fatalf("expected no error from stop, got %v", err)
	}
	if partial != "partial words" {
		t.Fatalf("expected partial transcript %q, got %q", "partial words", partial)
	}

	partial, err = client.Stop()
	if err != nil {
		t.Fatalf("expected no error from repeated stop, got %v", err)
	}
	if partial != "" {
		t.Fatalf("expected empty partial after repeated stop, got %q", partial)
	}
}
