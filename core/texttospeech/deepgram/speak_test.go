package deepgram

import (
	"sync/atomic"
	"testing"
)

func TestReleaseFiresCompletionExactlyOnce(t *testing.T) {
	client, err := NewSpeechClient(WithAPIKey("test-key"))
	if err != nil {
		t.Fatalf("expected client construction to succeed, got %v", err)
	}

	completions := atomic.Int32{}
	request := &speechRequest{client: client, onComplete: func() { completions.Add(1) }}
	client.setCurrent(request)

	request.release()
	request.release()
	request.cancel()

	if got := completions.Load(); got != 1 {
		t.Fatalf("expected completion callback once, got %d", got)
	}
}

func TestCancelReleasesInFlightRequest(t *testing.T) {
	client, err := NewSpeechClient(WithAPIKey("test-key"))
	if err != nil {
		t.Fatalf("expected client construction to succeed, got %v", err)
	}

	completions := atomic.Int32{}
	request := &speechRequest{client: client, onComplete: func() { completions.Add(1) }}
	client.setCurrent(request)

	client.Cancel()

	if got := completions.Load(); got != 1 {
		t.Fatalf("expected cancel to complete the in-flight request, got %d completions", got)
	}

	client.mu.Lock()
	current := client.current
	client.mu.Unlock()
	if current != nil {
		t.Fatalf("expected current request to be cleared after cancel")
	}
}

func TestCancelWithoutInFlightRequestIsNoop(t *testing.T) {
	client, err := NewSpeechClient(WithAPIKey("test-key"))
	if err != nil {
		t.Fatalf("expected client construction to succeed, got %v", err)
	}

	client.Cancel()
	client.Close()
}

func TestNewSpeechClientRejectsUnknownVoice(t *testing.T) {
	if _, err := NewSpeechClient(WithAPIKey("test-key"), WithVoice(Voice("aura-2-nonexistent-en"))); err == nil {
		t.Fatalf("expected unknown voice to be rejected")
	}
}
