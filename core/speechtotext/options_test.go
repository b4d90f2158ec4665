package speechtotext

import (
	"testing"
	"time"
)

func TestClampUtteranceEndSilence(t *testing.T) {
	testCases := []struct {
		name     string
		silence  time.Duration
		expected time.Duration
	}{
		{name: "zero falls back to default", silence: 0, expected: DefaultUtteranceEndSilence},
		{name: "negative falls back to default", silence: -time.Second, expected: DefaultUtteranceEndSilence},
		{name: "below range clamps up", silence: 300 * time.Millisecond, expected: minUtteranceEndSilence},
		{name: "above range clamps down", silence: 5 * time.Second, expected: maxUtteranceEndSilence},
		{name: "in range passes through", silence: 1500 * time.Millisecond, expected: 1500 * time.Millisecond},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := ClampUtteranceEndSilence(testCase.silence); got != testCase.expected {
				t.Fatalf("expected %v, got %v", testCase.expected, got)
			}
		})
	}
}
