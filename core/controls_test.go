package orchestration

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestSetMutedSkipsSpeechForNewReplies(t *testing.T) {
	speech := &fakeSpeech{}
	turnCompleted := make(chan struct{}, 1)
	muteChanges := make(chan bool, 2)

	s := NewSession(Identity{Name: "Alex"},
		WithCompletionClient(&scriptedCompletion{replies: []string{"quiet reply"}}),
		WithSpeechOutput(speech),
		WithMuteStateCallback(func(muted bool) {
			muteChanges <- muted
		}),
		WithTurnCompletedCallback(func() {
			select {
			case turnCompleted <- struct{}{}:
			default:
			}
		}),
	)
	defer s.Close()

	s.SetMuted(true)
	if !s.IsMuted() {
		t.Fatalf("expected session to report muted")
	}

	s.SubmitUtterance(context.Background(), "Hello")
	waitForSignal(t, turnCompleted, "turn completion")

	if got := speech.speakCalls.Load(); got != 0 {
		t.Fatalf("expected no synthesis while muted, got %d calls", got)
	}
	if len(s.History()) != 3 {
		t.Fatalf("expected the reply to enter the history while muted")
	}

	select {
	case muted := <-muteChanges:
		if !muted {
			t.Fatalf("expected the first mute change to report muted")
		}
	default:
		t.Fatalf("expected a mute state callback")
	}
}

func TestSetMutedMidSpeechCancelsSynthesis(t *testing.T) {
	speech := &fakeSpeech{manual: true}
	speaking := make(chan struct{}, 1)
	turnCompleted := make(chan struct{}, 1)

	s := NewSession(Identity{Name: "Alex"},
		WithCompletionClient(&scriptedCompletion{replies: []string{"a long soliloquy"}}),
		WithSpeechOutput(speech),
		WithAssistantMessageCallback(func(string) {
			select {
			case speaking <- struct{}{}:
			default:
			}
		}),
		WithTurnCompletedCallback(func() {
			select {
			case turnCompleted <- struct{}{}:
			default:
			}
		}),
	)
	defer s.Close()

	s.SubmitUtterance(context.Background(), "Tell me everything")
	waitForSignal(t, speaking, "synthesis to start")

	// Let the speak call land before muting.
	deadline := time.Now().Add(2 * time.Second)
	for speech.speakCalls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for the speak call")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.SetMuted(true)
	waitForSignal(t, turnCompleted, "turn completion after cancel")

	if got := speech.cancelCalls.Load(); got != 1 {
		t.Fatalf("expected exactly one cancel, got %d", got)
	}
	if state := s.State(); state != TurnStateIdle {
		t.Fatalf("expected idle state after cancelled speech, got %q", state)
	}
}

func TestSetMutedUnchangedIsNoop(t *testing.T) {
	var changes atomic.Int32
	s := NewSession(Identity{Name: "Alex"},
		WithMuteStateCallback(func(bool) {
			changes.Add(1)
		}),
	)
	defer s.Close()

	s.SetMuted(false)
	s.SetMuted(true)
	s.SetMuted(true)
	s.SetMuted(false)

	if got := changes.Load(); got != 2 {
		t.Fatalf("expected two mute changes, got %d", got)
	}
}
