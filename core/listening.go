package orchestration

import (
	"context"
	"log"
	"strings"

	"go.opentelemetry.io/otel/codes"

	"github.com/voicekind/companion-core/core/events"
	"github.com/voicekind/companion-core/core/speechtotext"
)

// StartListening opens the microphone and begins streaming utterances into
// the session. Calling it while already listening is a no-op. While a turn is
// in flight the request is remembered and capture resumes automatically once
// the turn completes.
func (s *Session) StartListening(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if s.state == TurnStateListening {
		s.mu.Unlock()
		return nil
	}
	s.listenIntent = true
	if s.state.inFlight() {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	ctx, span := tracer.Start(ctx, "start listening")
	defer span.End()

	if err := s.Initialize(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to initialize before listening")
		s.emitEvent(events.NewErrorRaised(string(ErrorKindConnection), err.Error()))
		return err
	}

	err := s.speechToText.Start(ctx,
		speechtotext.WithInterimTranscriptionCallback(func(transcript string) {
			s.emitEvent(events.NewUserTranscriptInterim(transcript))
		}),
		speechtotext.WithTranscriptionCallback(func(transcript string) {
			s.SubmitUtterance(s.baseContext, transcript)
		}),
		speechtotext.WithSpeechStartedCallback(func() {
			s.emitEvent(events.NewUserSpeechStarted())
		}),
		speechtotext.WithSpeechEndedCallback(func() {
			s.emitEvent(events.NewUserSpeechEnded())
		}),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to start transcription")
		s.emitEvent(events.NewErrorRaised(string(ErrorKindConnection), err.Error()))
		return err
	}

	s.mu.Lock()
	// A turn may have started while capture was spinning up; the listening
	// intent is kept and the turn's completion resumes capture.
	if s.state == TurnStateIdle {
		s.state = TurnStateListening
	}
	s.mu.Unlock()

	s.emitEvent(events.NewListeningStateChanged(true))
	return nil
}

// StopListening stops audio capture and returns any partial transcript
// accumulated for the current utterance. When the session is not listening
// it returns an empty string.
func (s *Session) StopListening() string {
	s.mu.Lock()
	if s.state != TurnStateListening {
		s.listenIntent = false
		s.mu.Unlock()
		return ""
	}
	s.state = TurnStateIdle
	s.listenIntent = false
	s.mu.Unlock()

	partial, err := s.speechToText.Stop()
	if err != nil {
		log.Println("Failed to stop audio capture:", err)
		s.emitEvent(events.NewErrorRaised(string(ErrorKindCaptureStop), err.Error()))
		partial = ""
	}

	s.emitEvent(events.NewListeningStateChanged(false))
	return strings.TrimSpace(partial)
}

// suspendCapture pauses the transcriber while a turn runs. Failures are
// logged but do not block the turn.
func (s *Session) suspendCapture() {
	if _, err := s.speechToText.Stop(); err != nil {
		log.Println("Failed to suspend audio capture:", err)
	}
	s.emitEvent(events.NewListeningStateChanged(false))
}
