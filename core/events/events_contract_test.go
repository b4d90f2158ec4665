package events

import "testing"

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "user message", event: NewUserMessage("hello"), expected: KindUserMessage},
		{name: "user transcript interim", event: NewUserTranscriptInterim("hel"), expected: KindUserTranscriptInterim},
		{name: "user speech started", event: NewUserSpeechStarted(), expected: KindUserSpeechStarted},
		{name: "user speech ended", event: NewUserSpeechEnded(), expected: KindUserSpeechEnded},
		{name: "assistant message", event: NewAssistantMessage("hi"), expected: KindAssistantMessage},
		{name: "turn completed", event: NewTurnCompleted(), expected: KindTurnCompleted},
		{name: "connection state changed", event: NewConnectionStateChanged(true), expected: KindConnectionStateChanged},
		{name: "listening state changed", event: NewListeningStateChanged(true), expected: KindListeningStateChanged},
		{name: "mute state changed", event: NewMuteStateChanged(true), expected: KindMuteStateChanged},
		{name: "session closed", event: NewSessionClosed(), expected: KindSessionClosed},
		{name: "error raised", event: NewErrorRaised("completion", "boom"), expected: KindErrorRaised},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestSpeechStartedAndEndedKindsAreDistinct(t *testing.T) {
	started := NewUserSpeechStarted()
	ended := NewUserSpeechEnded()

	if started.Kind() == ended.Kind() {
		t.Fatalf("expected speech started and speech ended kinds to differ, both were %q", started.Kind())
	}
}
